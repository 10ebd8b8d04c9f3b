// Package service contains the application use cases of the LMS. Services
// coordinate domain objects and the repository interfaces defined in
// internal/store, apply transactional boundaries for multi-store writes, and
// authorize every command against the identity resolved for the request.
//
// Services never depend on a concrete storage implementation. Expected
// failures surface as sentinel errors from internal/domain and internal/store,
// wrapped in a ServiceError so callers can match them with errors.Is while
// logs keep the failing operation.
package service
