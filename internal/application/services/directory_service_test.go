package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

func TestDirectoryService_PassesThroughResults(t *testing.T) {
	transport := new(MockDirectoryTransport)
	transport.On("ListStates", mock.Anything).Return([]string{"Goa", "Kerala"}, nil)
	transport.On("ListDistricts", mock.Anything, "Goa").Return([]string{"North Goa"}, nil)
	transport.On("ListHospitals", mock.Anything, "Goa", "North Goa").Return([]string{"GMC"}, nil)
	transport.On("ListSchemeAudiences", mock.Anything).Return([]string{"All India", "Goa"}, nil)
	transport.On("ListSchemes", mock.Anything, "Goa").Return([]entities.Scheme{{Title: "DDSSY"}}, nil)
	transport.On("SearchFAQs", mock.Anything, "ors").Return([]entities.FAQ{{Question: "ORS?"}}, nil)

	svc := services.NewDirectoryService(transport, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"Goa", "Kerala"}, svc.ListStates(ctx))
	assert.Equal(t, []string{"North Goa"}, svc.ListDistricts(ctx, " Goa "))
	assert.Equal(t, []string{"GMC"}, svc.ListHospitals(ctx, "Goa", "North Goa"))
	assert.Equal(t, []string{"All India", "Goa"}, svc.ListSchemeAudiences(ctx))
	assert.Equal(t, []entities.Scheme{{Title: "DDSSY"}}, svc.ListSchemes(ctx, "Goa"))
	assert.Equal(t, []entities.FAQ{{Question: "ORS?"}}, svc.SearchFAQs(ctx, " ors "))
	transport.AssertExpectations(t)
}

func TestDirectoryService_DegradesToEmpty(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	transport := new(MockDirectoryTransport)
	transport.On("ListStates", mock.Anything).Return(nil, boom)
	transport.On("ListDistricts", mock.Anything, "Goa").Return(nil, boom)
	transport.On("ListHospitals", mock.Anything, "Goa", "").Return(nil, boom)
	transport.On("ListSchemeAudiences", mock.Anything).Return(nil, boom)
	transport.On("ListSchemes", mock.Anything, "").Return(nil, boom)
	transport.On("SearchFAQs", mock.Anything, "flu").Return(nil, boom)

	svc := services.NewDirectoryService(transport, nil)
	ctx := context.Background()

	assert.Equal(t, []string{}, svc.ListStates(ctx))
	assert.Equal(t, []string{}, svc.ListDistricts(ctx, "Goa"))
	assert.Equal(t, []string{}, svc.ListHospitals(ctx, "Goa", ""))
	assert.Equal(t, []string{}, svc.ListSchemeAudiences(ctx))
	assert.Equal(t, []entities.Scheme{}, svc.ListSchemes(ctx, ""))
	assert.Equal(t, []entities.FAQ{}, svc.SearchFAQs(ctx, "flu"))
}

func TestDirectoryService_BlankInputsSkipNetwork(t *testing.T) {
	transport := new(MockDirectoryTransport)
	svc := services.NewDirectoryService(transport, nil)
	ctx := context.Background()

	assert.Empty(t, svc.ListDistricts(ctx, ""))
	assert.Empty(t, svc.ListHospitals(ctx, "  ", "North Goa"))
	assert.Empty(t, svc.SearchFAQs(ctx, "   "))
	transport.AssertNotCalled(t, "ListDistricts", mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "ListHospitals", mock.Anything, mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "SearchFAQs", mock.Anything, mock.Anything)
}

func TestDirectoryService_NilResultIsEmptyList(t *testing.T) {
	transport := new(MockDirectoryTransport)
	transport.On("ListStates", mock.Anything).Return(nil, nil)

	svc := services.NewDirectoryService(transport, nil)
	assert.NotNil(t, svc.ListStates(context.Background()))
}
