package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates word lists cannot be read, so no search can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	dictionary DictionaryChecker
	cache      CachePinger
	chat       ChatChecker
}

// New creates a Service. dictionary may be nil when the source has no check;
// cache and chat are nil when those components are disabled.
func New(dictionary DictionaryChecker, cache CachePinger, chat ChatChecker) *Service {
	return &Service{dictionary: dictionary, cache: cache, chat: chat}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.dictionary != nil {
		checks["word_lists"] = result(s.dictionary.HealthCheck(ctx))
		if checks["word_lists"] == CheckError {
			status = Unhealthy
		}
	}

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}

	if s.chat != nil {
		checks["chat"] = CheckOK
		if !s.chat.Connected() {
			checks["chat"] = CheckError
		}
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
