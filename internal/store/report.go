package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Report is an email report sent once a month on RunDay. Params holds
// per-analysis parameters, keyed by analysis name.
type Report struct {
	Name   string                       `validate:"required"`
	Email  string                       `validate:"required,email"`
	RunDay int                          `validate:"min=1,max=31"`
	Types  []string                     `validate:"min=1,dive,required"`
	Params map[string]map[string]string `validate:"-"`

	// Sent is zero if the report was never sent.
	Sent time.Time `validate:"-"`
}

// AddReport creates or replaces the report with r's name and email.
func (s *Store) AddReport(r Report) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	params, err := json.Marshal(r.Params)
	if err != nil {
		return fmt.Errorf("marshalling params: %w", err)
	}

	_, err = s.db.Exec("INSERT OR REPLACE INTO Report (name, email, run_day, types, params) VALUES (?, ?, ?, ?, ?)",
		r.Name, r.Email, r.RunDay, strings.Join(r.Types, ","), string(params))
	if err != nil {
		return fmt.Errorf("adding report %q: %w", r.Name, err)
	}
	return nil
}

func (s *Store) Reports() ([]Report, error) {
	rows, err := s.db.Query("SELECT name, email, run_day, types, params, sent FROM Report ORDER BY name, email")
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var (
			r      Report
			types  string
			params sql.NullString
			sent   sql.NullTime
		)
		if err := rows.Scan(&r.Name, &r.Email, &r.RunDay, &types, &params, &sent); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.Types = strings.Split(types, ",")
		if params.Valid && params.String != "" {
			if err := json.Unmarshal([]byte(params.String), &r.Params); err != nil {
				return nil, fmt.Errorf("report %q params: %w", r.Name, err)
			}
		}
		if sent.Valid {
			r.Sent = sent.Time
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) DeleteReport(name, email string) error {
	res, err := s.db.Exec("DELETE FROM Report WHERE name = ? AND email = ?", name, email)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("report %q for %s: %w", name, email, ErrNotFound)
	}
	return nil
}

// MarkReportSent records when a report was last sent.
func (s *Store) MarkReportSent(name, email string, sent time.Time) error {
	_, err := s.db.Exec("UPDATE Report SET sent = ? WHERE name = ? AND email = ?", sent, name, email)
	if err != nil {
		return fmt.Errorf("recording report %q as sent: %w", name, err)
	}
	return nil
}

// Due reports whether r should be sent at now: its run day this month has
// passed and it has not been sent since, or its run day has not come yet this
// month and it was not sent since last month's run day.
func (r Report) Due(now time.Time) bool {
	thisMonth := time.Date(now.Year(), now.Month(), r.RunDay, 0, 0, 0, 0, now.Location())
	lastMonth := time.Date(now.Year(), now.Month()-1, r.RunDay, 0, 0, 0, 0, now.Location())
	if r.Sent.After(thisMonth) {
		return false
	}
	if now.Before(thisMonth) && r.Sent.After(lastMonth) {
		return false
	}
	return true
}
