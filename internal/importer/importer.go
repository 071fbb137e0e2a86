// Package importer loads plant records in bulk from CSV files. Imported
// plants enter the store as pending unless the import is explicitly marked
// trusted, so bulk data goes through the same moderation gate as community
// submissions.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// requiredColumns must appear in the CSV header. Optional columns are
// hindi_name, description, uses, preparation and region.
var requiredColumns = []string{"name", "scientific_name"}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Importer reads plant CSV files into the store.
type Importer struct {
	ds     datastore.Interface
	logger *slog.Logger
}

// New creates an importer backed by the given store.
func New(ds datastore.Interface) *Importer {
	return &Importer{
		ds:     ds,
		logger: logging.ForService("importer"),
	}
}

// ImportFile imports all rows from a CSV file. When trusted is true the
// imported plants are marked verified directly.
func (imp *Importer) ImportFile(path string, trusted bool) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, errors.New(fmt.Errorf("opening import file: %w", err)).
			Component("importer").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer file.Close()

	result, err := imp.Import(file, trusted)
	if err != nil {
		return result, err
	}
	imp.logger.Info("import finished",
		"path", path, "imported", result.Imported, "skipped", result.Skipped, "trusted", trusted)
	return result, nil
}

// Import reads CSV rows from r. Rows missing a required field are skipped and
// counted; a malformed CSV aborts the import.
func (imp *Importer) Import(r io.Reader, trusted bool) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, errors.New(fmt.Errorf("reading CSV header: %w", err)).
			Component("importer").
			Category(errors.CategoryFileParsing).
			Build()
	}
	columns, err := mapColumns(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, errors.New(fmt.Errorf("reading CSV row: %w", err)).
				Component("importer").
				Category(errors.CategoryFileParsing).
				Context("line", line).
				Build()
		}

		plant := rowToPlant(row, columns)
		if plant.Name == "" || plant.ScientificName == "" {
			imp.logger.Warn("skipping row with missing required fields", "line", line)
			result.Skipped++
			continue
		}
		if trusted {
			plant.VerificationStatus = datastore.PlantVerified
		}

		if err := imp.ds.CreatePlant(&plant); err != nil {
			return result, errors.New(fmt.Errorf("storing imported plant %q: %w", plant.Name, err)).
				Component("importer").
				Category(errors.CategoryDatabase).
				Context("line", line).
				Build()
		}
		result.Imported++
	}
	return result, nil
}

// mapColumns resolves header names to indexes and checks required columns.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, errors.Newf("missing required column %q", required).
				Component("importer").
				Category(errors.CategoryFileParsing).
				Context("column", required).
				Build()
		}
	}
	return columns, nil
}

func rowToPlant(row []string, columns map[string]int) datastore.Plant {
	field := func(name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}
	return datastore.Plant{
		Name:           field("name"),
		ScientificName: field("scientific_name"),
		HindiName:      field("hindi_name"),
		Description:    field("description"),
		Uses:           field("uses"),
		Preparation:    field("preparation"),
		Region:         field("region"),
	}
}
