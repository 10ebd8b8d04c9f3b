// Package mocks provides function-field mocks of the service interfaces for
// handler and middleware tests.
//
// Each mock has one XxxFn field per interface method. A nil field makes the
// method return zero values, so a test only wires the calls it expects:
//
//	catalog := &mocks.MockCatalogService{
//	    GetCourseDetailFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*service.CourseDetail, error) {
//	        return nil, store.ErrCourseNotFound
//	    },
//	}
package mocks
