package tenantdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) OrganizationExists(ctx context.Context, id tenant.ID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockEnsurer struct {
	mock.Mock
}

func (m *mockEnsurer) EnsureDatabase(ctx context.Context, id tenant.ID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func TestPoolOpener(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := pg.Config{ConnectionString: "postgres://app@localhost/core"}

	t.Run("non positive id is not found", func(t *testing.T) {
		t.Parallel()
		ensurer := &mockEnsurer{}
		o := tenantdb.NewPoolOpener(cfg, tenantdb.Config{}, ensurer, nil)

		_, err := o.Open(ctx, 0)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
		ensurer.AssertNotCalled(t, "EnsureDatabase", mock.Anything, mock.Anything)
	})

	t.Run("unknown organization is not found", func(t *testing.T) {
		t.Parallel()
		lookup := &mockLookup{}
		lookup.On("OrganizationExists", ctx, tenant.ID(99)).Return(false, nil)
		ensurer := &mockEnsurer{}
		o := tenantdb.NewPoolOpener(cfg, tenantdb.Config{}, ensurer, lookup)

		_, err := o.Open(ctx, 99)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
		ensurer.AssertNotCalled(t, "EnsureDatabase", mock.Anything, mock.Anything)
		lookup.AssertExpectations(t)
	})

	t.Run("lookup error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("core down")
		lookup := &mockLookup{}
		lookup.On("OrganizationExists", ctx, tenant.ID(1)).Return(false, boom)
		o := tenantdb.NewPoolOpener(cfg, tenantdb.Config{}, &mockEnsurer{}, lookup)

		_, err := o.Open(ctx, 1)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("provisioning failure", func(t *testing.T) {
		t.Parallel()
		lookup := &mockLookup{}
		lookup.On("OrganizationExists", ctx, tenant.ID(2)).Return(true, nil)
		ensurer := &mockEnsurer{}
		ensurer.On("EnsureDatabase", ctx, tenant.ID(2)).Return("", tenantdb.ErrProvisioningFailed)
		o := tenantdb.NewPoolOpener(cfg, tenantdb.Config{}, ensurer, lookup)

		_, err := o.Open(ctx, 2)
		assert.ErrorIs(t, err, tenantdb.ErrProvisioningFailed)
		ensurer.AssertExpectations(t)
	})
}
