package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var sheetsAppendTracer = otel.Tracer("toolrent.internal.notify.sheets")

// SheetsConfig controls the spreadsheet sink.
type SheetsConfig struct {
	ServiceAccountJSON string
	SpreadsheetID      string
	SheetName          string
}

// SheetsAppender appends rows to a spreadsheet range. *sheets.Service
// satisfies it through the adapter below; tests inject fakes.
type SheetsAppender interface {
	Append(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error
}

// SheetsSink appends one row per submission to the leads sheet.
type SheetsSink struct {
	appender      SheetsAppender
	spreadsheetID string
	rangeA1       string
	now           func() time.Time
}

// NewSheetsSink authenticates with the service account and creates the sink.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig) (*SheetsSink, error) {
	if strings.TrimSpace(cfg.ServiceAccountJSON) == "" {
		return nil, errors.New("sheets: service account credentials are required")
	}
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: init service: %w", err)
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Leads"
	}
	return &SheetsSink{
		appender:      &sheetsServiceAppender{svc: svc},
		spreadsheetID: cfg.SpreadsheetID,
		rangeA1:       sheetName + "!A:L",
		now:           time.Now,
	}, nil
}

// NewSheetsSinkWithAppender allows injecting a fake appender for tests.
func NewSheetsSinkWithAppender(appender SheetsAppender, spreadsheetID, sheetName string) *SheetsSink {
	return &SheetsSink{
		appender:      appender,
		spreadsheetID: spreadsheetID,
		rangeA1:       sheetName + "!A:L",
		now:           time.Now,
	}
}

// Name identifies the sink in logs and metrics.
func (s *SheetsSink) Name() string { return "sheets" }

// Send appends the fixed 12-column row for the notification.
func (s *SheetsSink) Send(ctx context.Context, n *Notification) error {
	ctx, span := sheetsAppendTracer.Start(ctx, "notify.sheets.append")
	defer span.End()
	span.SetAttributes(
		attribute.String("toolrent.flow", n.Flow),
		attribute.String("toolrent.range", s.rangeA1),
	)

	row := []any{
		s.now().UTC().Format(time.RFC3339),
		n.Name,
		n.Contact,
		n.ToolID,
		n.ToolName,
		n.DateFrom,
		n.DateTo,
		n.Notes,
		n.Referrer,
		n.PagePath,
		n.UserAgent,
		n.IP,
	}
	if err := s.appender.Append(ctx, s.spreadsheetID, s.rangeA1, row); err != nil {
		err = fmt.Errorf("sheets: append row: %w", err)
		span.RecordError(err)
		return err
	}
	return nil
}

type sheetsServiceAppender struct {
	svc *sheets.Service
}

func (a *sheetsServiceAppender) Append(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error {
	_, err := a.svc.Spreadsheets.Values.
		Append(spreadsheetID, rangeA1, &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
