package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/m/internal/database/dbtest"
	"pms/m/internal/inventory"
)

const catalog = `name,stock,symptom,brand,price
Paracetamol,40,"Fever, headache",Calpol,2.50
Cetirizine,4,Allergy,Zyrtec,6
Paracetamol,10,"Fever, headache",Calpol,3.00
Broken,-2,Pain,Nobrand,1
Short,row
`

func TestLoadMedicines(t *testing.T) {
	db := dbtest.Open(t)
	svc := inventory.NewService(db, nil)

	res, err := LoadMedicines(context.Background(), svc, strings.NewReader(catalog))
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 2, Merged: 1, Skipped: 2}, res)

	meds, err := svc.List(context.Background(), inventory.Filter{Brand: "calpol"})
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.EqualValues(t, 50, meds[0].Stock)
	assert.Equal(t, "Fever, headache", meds[0].Symptom)
	dbtest.Idle(t, db)
}

func TestLoadMedicinesFile(t *testing.T) {
	svc := inventory.NewService(dbtest.Open(t), nil)

	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))
	res, err := LoadMedicinesFile(context.Background(), svc, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	_, err = LoadMedicinesFile(context.Background(), svc, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	empty, err := LoadMedicines(context.Background(), svc, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Result{}, empty)
}
