// Package seed loads a medicine catalog into the inventory.
package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"pms/m/internal/apperr"
	"pms/m/internal/inventory"
)

// Result counts what happened to the catalog rows.
type Result struct {
	Inserted int `json:"inserted"`
	Merged   int `json:"merged"`
	Skipped  int `json:"skipped"`
}

// LoadMedicinesFile opens csvPath and loads it with LoadMedicines.
func LoadMedicinesFile(ctx context.Context, svc *inventory.Service, csvPath string) (Result, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return Result{}, fmt.Errorf("open medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()
	return LoadMedicines(ctx, svc, file)
}

// LoadMedicines reads name,stock,symptom,brand,price rows after a header line
// and adds each one through the inventory, so a repeated (name, brand) adds
// stock instead of inserting. Invalid rows are skipped; a store failure stops the load.
func LoadMedicines(ctx context.Context, svc *inventory.Service, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("read medicine header: %w", err)
	}

	var res Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.WithError(err).Warn("unable to read medicine row")
			res.Skipped++
			continue
		}
		if len(record) < 5 {
			res.Skipped++
			continue
		}

		added, err := svc.Add(ctx, inventory.NewMedicine{
			Name:    record[0],
			Stock:   json.Number(strings.TrimSpace(record[1])),
			Symptom: record[2],
			Brand:   record[3],
			Price:   json.Number(strings.TrimSpace(record[4])),
		})
		switch {
		case err == nil && added.Merged:
			res.Merged++
		case err == nil:
			res.Inserted++
		case apperr.Is(err, apperr.KindValidation):
			logrus.WithFields(logrus.Fields{"name": record[0], "reason": apperr.PublicMessage(err)}).Warn("medicine row skipped")
			res.Skipped++
		default:
			return res, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"inserted": res.Inserted,
		"merged":   res.Merged,
		"skipped":  res.Skipped,
	}).Info("seeded medicine catalog")
	return res, nil
}
