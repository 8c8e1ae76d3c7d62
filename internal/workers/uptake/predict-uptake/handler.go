// internal/workers/uptake/predict-uptake/handler.go
package predictuptake

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
	"plan-uptake-workers/internal/records"
	"plan-uptake-workers/internal/uptake"
	"plan-uptake-workers/internal/workers/uptake/input"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "uptake.plan.predict"
	WorkerName = "predict-uptake"
)

type Handler struct {
	config        *Config
	logger        logger.Logger
	engine        *uptake.Engine
	store         records.Store
	observability *observability.Observability
	errorHandler  *errors.ErrorHandler
	now           func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        *uptake.Engine
	Store         records.Store // nil disables saving
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("%s: engine is required", WorkerName)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured(logger.Options{Level: "info", Format: "json"})
	}

	return &Handler{
		config:        workerConfig,
		logger:        log.WithFields(map[string]interface{}{"worker": TaskType}),
		engine:        opts.Engine,
		store:         opts.Store,
		observability: opts.Observability,
		errorHandler:  errors.NewErrorHandler(log).WithMaxRetries(workerConfig.MaxRetries),
		now:           time.Now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing uptake prediction", map[string]interface{}{
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
	metrics.ObserveJob(TaskType, code, time.Since(startTime).Seconds())
	h.observability.RecordJobDuration(ctx, TaskType, time.Since(startTime), statusOf(code))
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

	scenario, err := input.ParseScenario(variables)
	if err != nil {
		return nil, err
	}
	profile, err := input.ParseProfile(variables)
	if err != nil {
		return nil, err
	}
	levels, err := input.ParseAttributes(variables)
	if err != nil {
		return nil, err
	}

	in := &Input{Scenario: scenario, Profile: profile, Attributes: levels}
	if save, ok := variables["saveRecord"].(bool); ok {
		in.SaveRecord = &save
	}
	return in, nil
}

// Execute evaluates the model and, when enabled, appends a saved record.
func (h *Handler) Execute(ctx context.Context, in *Input) (*Output, error) {
	result, err := h.engine.Evaluate(in.Scenario, in.Profile, in.Attributes)
	h.observability.RecordEvaluation(ctx, in.Scenario.String(), resultUptake(result), err)
	if err != nil {
		return nil, err
	}
	metrics.UptakeProbability.WithLabelValues(in.Scenario.String()).Observe(result.Uptake)

	plan := result.ClassPlanProbabilities()
	out := &Output{
		ClassLabels:            result.Membership.Labels[:],
		ClassProbabilities:     result.Membership.Probabilities[:],
		ClassPlanProbabilities: plan[:],
		UptakeProbability:      result.Uptake,
		FormattedMembership:    uptake.FormatMembership(result.Membership),
		FormattedUptake:        uptake.FormatUptake(result.Uptake),
		CoefficientTable:       result.TableName + "@" + result.TableVersion,
	}

	if h.shouldSave(in) {
		rec := records.NewSavedRecord(result, in.Profile, in.Attributes, h.now())
		if err := h.store.Append(ctx, rec); err != nil {
			return nil, errors.NewRecordStoreFailedError("append", err)
		}
		metrics.RecordsSaved.WithLabelValues(h.store.Backend()).Inc()
		out.RecordID = rec.ID.String()
	}

	return out, nil
}

func (h *Handler) shouldSave(in *Input) bool {
	if h.store == nil {
		return false
	}
	if in.SaveRecord != nil {
		return *in.SaveRecord
	}
	return h.config.SaveRecords
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

	h.logger.Info("Uptake prediction completed", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"uptake":   out.UptakeProbability,
		"recordId": out.RecordID,
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

func (h *Handler) GetConfig() *Config {
	return h.config
}

func resultUptake(r *uptake.EvaluationResult) float64 {
	if r == nil {
		return 0
	}
	return r.Uptake
}

func statusOf(errorCode string) string {
	if errorCode == "" {
		return "completed"
	}
	return "failed"
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
		if appConfig.Records.Backend == config.RecordsBackendNone {
			cfg.SaveRecords = false
		}
	}
	return cfg
}
