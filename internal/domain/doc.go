// Package domain contains the core business entities, value objects, and
// domain logic of the application: the course catalog, identities, enrollment
// progress, prerequisites, homework review and tags. It is independent of any
// specific infrastructure or delivery mechanism, and the derived computations
// here (progress, scores, prerequisite evaluation) are pure functions over
// already-loaded entities.
package domain
