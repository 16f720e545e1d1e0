package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// ExportFormat selects the serialization of an export download.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

var csvHeader = []string{"Name", "Type", "Company", "Policy Number", "Expiry Date", "Price", "Currency", "Has File"}

// ParseExportFormat validates a format tag, defaulting to JSON when empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "":
		return ExportJSON, nil
	case ExportJSON, ExportCSV:
		return ExportFormat(s), nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, s)
	}
}

// EncodeExport renders policies in the requested format.
func EncodeExport(policies []domain.Policy, format ExportFormat) ([]byte, string, error) {
	switch format {
	case ExportCSV:
		b, err := encodeCSV(policies)
		return b, "text/csv", err
	default:
		b, err := json.MarshalIndent(policies, "", "  ")
		return b, "application/json", err
	}
}

func encodeCSV(policies []domain.Policy) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range policies {
		price := ""
		if p.CurrentPrice != nil {
			price = fmt.Sprintf("%.2f", *p.CurrentPrice)
		}
		hasFile := "no"
		if p.PolicyFileURL != "" {
			hasFile = "yes"
		}
		record := []string{
			p.Name,
			p.Type.DisplayName(),
			p.CompanyName,
			p.PolicyNumber,
			p.ExpiryDate.Format(time.DateOnly),
			price,
			p.Currency,
			hasFile,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
