package sbudesk

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SaleRecord is one sale submitted by a staff member against an SBU.
type SaleRecord struct {
	SBUID  int             `json:"sbu_id"`
	Amount decimal.Decimal `json:"amount"`
	Day    int             `json:"day"`
}

// ExpenseRecord is one expenditure submitted by a staff member against an SBU.
type ExpenseRecord struct {
	SBUID    int             `json:"sbu_id"`
	Amount   decimal.Decimal `json:"amount"`
	Day      int             `json:"day"`
	Category string          `json:"category,omitempty"`
}

// ErrInvalidRecord matches every *InvalidRecordError.
var ErrInvalidRecord = errors.New("invalid record")

// InvalidRecordError reports a record excluded from aggregation.
type InvalidRecordError struct {
	Kind   string // "sale" or "expense"
	Index  int    // position in the input list
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid %s record #%d: %s", e.Kind, e.Index, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// rawRecord is the wire form, with pointers to tell a missing field from a zero one.
type rawRecord struct {
	SBUID    int              `json:"sbu_id"`
	Amount   *decimal.Decimal `json:"amount"`
	Day      *int             `json:"day"`
	Category string           `json:"category"`
}

// DecodeSales decodes a JSON array of sale records.
//
// Records that cannot be decoded are skipped; the returned error joins one
// *InvalidRecordError per skipped record. A payload that is not an array is a
// plain error and yields no record at all.
func DecodeSales(data []byte) ([]SaleRecord, error) {
	raws, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode sales: %w", err)
	}
	sales := make([]SaleRecord, 0, len(raws))
	var errs error
	for i, raw := range raws {
		r, err := decodeRecord(raw)
		if err != nil {
			errs = errors.Join(errs, &InvalidRecordError{Kind: "sale", Index: i, Reason: err.Error()})
			continue
		}
		sales = append(sales, SaleRecord{SBUID: r.SBUID, Amount: *r.Amount, Day: *r.Day})
	}
	return sales, errs
}

// DecodeExpenses decodes a JSON array of expense records, see DecodeSales.
func DecodeExpenses(data []byte) ([]ExpenseRecord, error) {
	raws, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode expenses: %w", err)
	}
	expenses := make([]ExpenseRecord, 0, len(raws))
	var errs error
	for i, raw := range raws {
		r, err := decodeRecord(raw)
		if err != nil {
			errs = errors.Join(errs, &InvalidRecordError{Kind: "expense", Index: i, Reason: err.Error()})
			continue
		}
		expenses = append(expenses, ExpenseRecord{SBUID: r.SBUID, Amount: *r.Amount, Day: *r.Day, Category: r.Category})
	}
	return expenses, errs
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if len(data) == 0 || string(data) == "null" {
		return raws, nil
	}
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func decodeRecord(raw json.RawMessage) (rawRecord, error) {
	var r rawRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, err
	}
	if r.Amount == nil {
		return r, errors.New("missing amount")
	}
	if r.Day == nil {
		return r, errors.New("missing day")
	}
	return r, nil
}
