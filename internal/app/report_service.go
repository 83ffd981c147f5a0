// Package app sequences one immunization report run: validate the query
// file, probe the data source, execute the query, and hand the result set
// to the mailer.
package app

import (
	"context"
	"fmt"

	"immunization_reporter/internal/domain/report"
	"immunization_reporter/internal/domain/schoolyear"

	"github.com/sirupsen/logrus"
)

// DataClient executes parameterized queries against the data source.
type DataClient interface {
	TestConnection(ctx context.Context) error
	Execute(ctx context.Context, query string, args ...any) (*report.ResultSet, error)
	Close() error
}

// Mailer delivers the report. Send must absorb transport failures into its
// returned error rather than panicking.
type Mailer interface {
	TestConnection(ctx context.Context) error
	Send(ctx context.Context, rs *report.ResultSet, year schoolyear.Year) error
}

// QuerySource supplies the report query, bound for one school year.
type QuerySource interface {
	Validate() error
	Bind(year schoolyear.Year) (query string, args []any, err error)
}

type ReportService struct {
	data    DataClient
	mailer  Mailer
	queries QuerySource
	log     *logrus.Entry
}

func NewReportService(data DataClient, mailer Mailer, queries QuerySource, log *logrus.Entry) *ReportService {
	return &ReportService{
		data:    data,
		mailer:  mailer,
		queries: queries,
		log:     log,
	}
}

// Run performs one complete report pass for the given school year. With
// dryRun set, the query still executes but no email is sent. An empty
// result set is not a failure; the report goes out without an attachment.
func (s *ReportService) Run(ctx context.Context, year schoolyear.Year, dryRun bool) error {
	s.log.Infof("processing immunization report for school year %s", year)

	if err := s.queries.Validate(); err != nil {
		return fmt.Errorf("query file validation failed: %w", err)
	}

	if err := s.data.TestConnection(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	s.log.Info("database connection test: PASSED")

	query, args, err := s.queries.Bind(year)
	if err != nil {
		return fmt.Errorf("preparing report query: %w", err)
	}

	rs, err := s.data.Execute(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing report query: %w", err)
	}
	s.log.Infof("query executed successfully, retrieved %d records", rs.Len())

	if rs.Empty() {
		s.log.Warn("no data returned from query - this may indicate an issue")
	}

	if dryRun {
		s.log.Infof("dry run mode: skipping email, would have sent report with %d records", rs.Len())
		return nil
	}

	if err := s.mailer.Send(ctx, rs, year); err != nil {
		return fmt.Errorf("sending immunization report: %w", err)
	}
	s.log.Info("immunization report sent successfully")
	return nil
}
