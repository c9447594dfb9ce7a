// Package report reads and writes the semicolon-delimited CSV reports
// produced by the scan and by-day commands.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/username/git-overtime-tracker/internal/config"
	"github.com/username/git-overtime-tracker/internal/gitlog"
	"github.com/username/git-overtime-tracker/internal/overtime"
	"github.com/username/git-overtime-tracker/pkg/dateutil"
)

// CommitRecord is one classified commit: the raw commit plus its overtime
// classification, one row of the commits report.
type CommitRecord struct {
	gitlog.Commit
	overtime.Info
}

// commitHeader is the column row that opens the data section of the commits
// report. The reader locates the data section by matching it verbatim.
var commitHeader = []string{
	"project_name",
	"commit_id",
	"branch",
	"commit_title",
	"modified_files",
	"added_lines",
	"deleted_lines",
	"date",
	"time",
	"is_overtime",
	"is_saturday",
	"is_sunday",
	"overtime_in_min",
}

var dayHeader = []string{
	"date",
	"before_morning",
	"after_morning",
	"before_afternoon",
	"afterwork",
	"night",
	"saturday",
	"sunday",
	"total",
}

// WriteCommits writes the commits report: a preamble describing who and what
// was scanned and the configured shift windows, then the classified commits.
func WriteCommits(path string, records []CommitRecord, authorEmail, scanPath string, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating commits report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "user;repository")
	fmt.Fprintf(w, "%s;%s\n\n", authorEmail, scanPath)

	writeWindowBlock(w,
		fmt.Sprintf("Before %s working hours", cfg.Schedule.CutoverDate),
		"", cfg.Schedule.LegacyHours)
	writeWindowBlock(w, "Current working hours at office",
		joinDays(cfg.Schedule.OfficeDays), cfg.Schedule.OfficeHours)
	writeWindowBlock(w, "Current working hours at home",
		joinDays(cfg.Schedule.HomeDays), cfg.Schedule.HomeHours)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing report preamble: %w", err)
	}

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.Write(commitHeader); err != nil {
		return fmt.Errorf("writing commits header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Project,
			r.ID,
			r.Branch,
			r.Title,
			strconv.Itoa(r.ModifiedFiles),
			strconv.Itoa(r.AddedLines),
			strconv.Itoa(r.DeletedLines),
			dateutil.FormatDate(r.Date),
			r.Time,
			boolFlag(r.IsOvertime),
			boolFlag(r.IsSaturday),
			boolFlag(r.IsSunday),
			strconv.Itoa(r.Minutes),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing commit row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing commits report: %w", err)
	}
	return nil
}

func writeWindowBlock(w *bufio.Writer, title, days string, hours config.HoursConfig) {
	fmt.Fprintf(w, "%s;morning_start;morning_end;afternoon_start;afternoon_end\n", title)
	fmt.Fprintf(w, "%s;%s;%s;%s;%s\n\n",
		days, hours.MorningStart, hours.MorningEnd, hours.AfternoonStart, hours.AfternoonEnd)
}

func joinDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// AggregateEvent is the slice of a commit row the daily aggregator needs.
type AggregateEvent struct {
	Event      overtime.Event
	IsSaturday bool
	IsSunday   bool
}

// ReadCommitEvents parses a commits report back into aggregation input. The
// preamble is skipped; rows are read from the line matching the data-section
// header onward. Malformed rows are dropped, matching the tolerant reader
// the commits file format has always had.
func ReadCommitEvents(path string) ([]AggregateEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening commits report: %w", err)
	}
	defer f.Close()

	headerLine := strings.Join(commitHeader, ";")

	var events []AggregateEvent
	inData := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		if !inData {
			if strings.HasPrefix(line, headerLine) {
				inData = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < len(commitHeader) {
			continue
		}

		date, err := dateutil.ParseDate(parts[7])
		if err != nil {
			continue
		}

		events = append(events, AggregateEvent{
			Event:      overtime.Event{Date: date, Time: parts[8]},
			IsSaturday: parts[10] == "1",
			IsSunday:   parts[11] == "1",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading commits report: %w", err)
	}

	return events, nil
}

// ReadPreamble returns the author email and scanned path recorded at the
// top of a commits report.
func ReadPreamble(path string) (author, source string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("opening commits report: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != "user;repository" {
			continue
		}
		if !scanner.Scan() {
			break
		}
		parts := strings.SplitN(scanner.Text(), ";", 2)
		if len(parts) == 2 {
			return parts[0], parts[1], nil
		}
		break
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("reading commits report: %w", err)
	}
	return "", "", fmt.Errorf("no user;repository preamble in %s", path)
}

// WriteDayOvertime writes the per-day overtime report. Rows arrive already
// sorted from the aggregator.
func WriteDayOvertime(path string, days []overtime.DayOvertime) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating day overtime report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.Write(dayHeader); err != nil {
		return fmt.Errorf("writing day overtime header: %w", err)
	}
	for _, d := range days {
		row := []string{
			d.Date,
			strconv.Itoa(d.BeforeMorning),
			strconv.Itoa(d.AfterMorning),
			strconv.Itoa(d.BeforeAfternoon),
			strconv.Itoa(d.Afterwork),
			strconv.Itoa(d.Night),
			strconv.Itoa(d.Saturday),
			strconv.Itoa(d.Sunday),
			strconv.Itoa(d.Total),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing day overtime row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing day overtime report: %w", err)
	}
	return nil
}
