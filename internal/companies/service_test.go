package companies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/m/internal/apperr"
	"pms/m/internal/database/dbtest"
)

func TestCompanyLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	acme, err := svc.Add(ctx, " Acme Pharma ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Pharma", acme.Name)

	_, err = svc.Add(ctx, "Acme Pharma")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Company already exists", apperr.PublicMessage(err))

	_, err = svc.Add(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Add(ctx, "Globex")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Pharma", list[0].Name)

	require.NoError(t, svc.Delete(ctx, acme.SerialNo))
	err = svc.Delete(ctx, acme.SerialNo)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	dbtest.Idle(t, db)
}
