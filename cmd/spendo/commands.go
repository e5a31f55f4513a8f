package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"spendo/internal/dashboard"
	"spendo/internal/export"
	"spendo/internal/models"
	"spendo/internal/recordform"
	"spendo/internal/recordlist"

	"go.uber.org/zap"
)

type (
	dashboardAPI = dashboard.RecordLister
	formAPI      = recordform.RecordCreator
	listAPI      = recordlist.RecordAPI
)

func (s *shell) dashboard(ctx context.Context, args []string) error {
	fs := newFlagSet("dashboard", s.out)
	days := fs.String("days", strconv.Itoa(int(dashboard.DefaultWindow)), "trend window in days (7 or 30)")
	category := fs.String("category", "", "list every record in this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window, err := dashboard.ParseWindow(*days)
	if err != nil {
		return err
	}

	view := dashboard.NewView(s.api, s.logger)
	if err := view.Load(ctx); err != nil {
		return err
	}
	view.SetWindow(window)
	view.SelectCategory(*category)

	s.renderSummary(view.Summary(time.Now()))
	return nil
}

func (s *shell) renderSummary(sum dashboard.Summary) {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Expenses\tTotal Savings\tBalance\n")
	fmt.Fprintf(tw, "%s\t%s\t%s\n", amount(sum.Totals.Expenses), amount(sum.Totals.Savings), amount(sum.Totals.Balance))
	tw.Flush()

	s.renderCategories("Expenses by Category", sum.ExpenseCategories)
	s.renderCategories("Savings by Category", sum.SavingsCategories)

	fmt.Fprintf(s.out, "\nLast %d Days Trend\n", sum.Window)
	tw = tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Day\tExpense\tSavings\t\n")
	for _, p := range sum.Trend {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.Label, amount(p.Expense), amount(p.Savings))
	}
	tw.Flush()

	if sum.Category != "" {
		fmt.Fprintf(s.out, "\nTransactions for %s:\n", sum.Category)
		for _, r := range sum.DrillDown {
			fmt.Fprintf(s.out, "  %s: %s\n", r.Title, amount(r.Amount))
		}
	}
}

func (s *shell) renderCategories(title string, totals []dashboard.CategoryTotal) {
	fmt.Fprintf(s.out, "\n%s\n", title)
	if len(totals) == 0 {
		fmt.Fprintln(s.out, "  No data yet!")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, c := range totals {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, amount(c.Value))
	}
	tw.Flush()
}

func (s *shell) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add", s.out)
	typ := fs.String("type", string(models.RecordTypeExpense), "expense or savings")
	title := fs.String("title", "", "record title")
	category := fs.String("category", "", "category for the chosen type")
	amt := fs.String("amount", "", "positive amount")
	date := fs.String("date", "", "YYYY-MM-DD, defaults to today")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := recordform.New(s.logger)
	if err := form.SwitchTab(models.RecordType(*typ)); err != nil {
		return err
	}
	fields := map[string]string{
		"title":       *title,
		"category":    *category,
		"amount":      *amt,
		"description": *description,
	}
	if *date != "" {
		fields["date"] = *date
	}
	for field, value := range fields {
		if err := form.Set(field, value); err != nil {
			return err
		}
	}

	record, err := form.Submit(ctx, s.api)
	if err != nil {
		if form.DevDetails != "" {
			s.logger.Debug("Submit error details", zap.String("details", form.DevDetails))
		}
		return errors.New(form.Message)
	}

	fmt.Fprintln(s.out, form.Message)
	s.renderRecords([]*models.Record{record})
	return nil
}

func (s *shell) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list", s.out)
	query := fs.String("q", "", "case-insensitive search")
	exportPath := fs.String("export", "", "write the listed records to this spreadsheet file or directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list := recordlist.New(s.api, s.logger)
	if err := list.Load(ctx); err != nil {
		return fmt.Errorf("error fetching records: %w", err)
	}
	list.Query = *query

	s.renderRecords(list.Filtered())

	if *exportPath == "" {
		return nil
	}
	path := *exportPath
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.FileName)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := list.Export(f); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported %d records to %s\n", len(list.Filtered()), path)
	return nil
}

func (s *shell) edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: spendo edit <id> field=value...")
	}
	id := args[0]

	list := recordlist.New(s.api, s.logger)
	if err := list.Load(ctx); err != nil {
		return fmt.Errorf("error fetching records: %w", err)
	}
	if err := list.BeginEdit(id); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	for _, arg := range args[1:] {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		if err := list.SetDraft(field, value); err != nil {
			return err
		}
	}

	record, err := list.SaveEdit(ctx)
	if err != nil {
		return fmt.Errorf("error updating record: %w", err)
	}
	s.renderRecords([]*models.Record{record})
	return nil
}

func (s *shell) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: spendo delete <id>")
	}

	list := recordlist.New(s.api, s.logger)
	if err := list.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	fmt.Fprintln(s.out, "Record deleted successfully")
	return nil
}

func (s *shell) renderRecords(records []*models.Record) {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tTITLE\tDESCRIPTION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date.UTC().Format(models.DateLayout), r.Type, r.Category, amount(r.Amount), r.Title, r.Description)
	}
	tw.Flush()
}

func amount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
