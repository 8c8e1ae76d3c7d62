// internal/workers/uptake/export-records/handler.go
package exportrecords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plan-uptake-workers/internal/common/camunda"
	"plan-uptake-workers/internal/common/config"
	"plan-uptake-workers/internal/common/errors"
	"plan-uptake-workers/internal/common/logger"
	"plan-uptake-workers/internal/common/metrics"
	"plan-uptake-workers/internal/common/observability"
	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/export"
	"plan-uptake-workers/internal/records"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "uptake.records.export"
	WorkerName = "export-records"
)

type Handler struct {
	config        *Config
	logger        logger.Logger
	store         records.Store
	exporter      *export.Exporter
	observability *observability.Observability
	errorHandler  *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Store         records.Store
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured(logger.Options{Level: "info", Format: "json"})
	}

	return &Handler{
		config:        workerConfig,
		logger:        log.WithFields(map[string]interface{}{"worker": TaskType}),
		store:         opts.Store,
		exporter:      export.NewExporter(workerConfig.OutputDir, workerConfig.Title),
		observability: opts.Observability,
		errorHandler:  errors.NewErrorHandler(log).WithMaxRetries(workerConfig.MaxRetries),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing records export", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	in, err := h.parseInput(job)
	if err == nil {
		var out *Output
		if out, err = h.Execute(ctx, in); err == nil {
			h.completeJob(ctx, client, job, out)
		}
	}
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
	}

	code := errors.ExtractErrorCode(err)
	status := "completed"
	if code != "" {
		status = "failed"
	}
	metrics.ObserveJob(TaskType, code, time.Since(startTime).Seconds())
	h.observability.RecordJobDuration(ctx, TaskType, time.Since(startTime), status)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	format, err := export.ParseFormat(variables["format"].(string))
	if err != nil {
		return nil, errors.NewValidationFailedError(err.Error())
	}

	in := &Input{Format: format}
	if limit, ok := variables["limit"].(float64); ok {
		in.Limit = int(limit)
	}
	return in, nil
}

// Execute lists saved records and writes them to a new report file.
func (h *Handler) Execute(ctx context.Context, in *Input) (*Output, error) {
	if h.store == nil {
		return nil, errors.NewConfigurationError("saved-record store is disabled")
	}

	recs, err := h.store.List(ctx, in.Limit)
	if err != nil {
		return nil, errors.NewRecordStoreFailedError("list", err)
	}

	path, err := h.exporter.Export(recs, in.Format)
	if err != nil {
		return nil, errors.NewExportFailedError(string(in.Format), err)
	}
	metrics.ReportsExported.WithLabelValues(string(in.Format)).Inc()

	return &Output{
		ExportPath:  path,
		RecordCount: len(recs),
		Format:      string(in.Format),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, out *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(out)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	h.logger.Info("Records exported", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"path":        out.ExportPath,
		"recordCount": out.RecordCount,
	})
}

func (h *Handler) WorkerOptions() camunda.WorkerOptions {
	return camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
			if workerCfg.MaxRetries != nil {
				cfg.MaxRetries = *workerCfg.MaxRetries
			}
		}
		if appConfig.Export.OutputDir != "" {
			cfg.OutputDir = appConfig.Export.OutputDir
		}
		if appConfig.Export.Title != "" {
			cfg.Title = appConfig.Export.Title
		}
	}
	return cfg
}
