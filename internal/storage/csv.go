package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jstittsworth/dfs-covariance/internal/models"
)

// LoadGameRecords reads the historical game-log table. The opponent cell for
// batters encodes the opposing starting pitcher ahead of the team
// ("Pitcher Name,TEAM"), so the pitcher identity is derived here.
func LoadGameRecords(path string) ([]models.GameRecord, error) {
	rows, header, err := readTable(path)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "Name", "Position", "Team", "Scored", "Opponent", "Order", "Date")
	if err != nil {
		return nil, fmt.Errorf("history table %s: %w", path, err)
	}

	records := make([]models.GameRecord, 0, len(rows))
	for i, row := range rows {
		points, err := parseFloat(row[cols["Scored"]])
		if err != nil {
			return nil, fmt.Errorf("history table %s row %d: bad Scored value: %w", path, i+2, err)
		}
		order, err := parseOrder(row[cols["Order"]])
		if err != nil {
			return nil, fmt.Errorf("history table %s row %d: bad Order value: %w", path, i+2, err)
		}

		rec := models.GameRecord{
			PlayerName:   strings.TrimSpace(row[cols["Name"]]),
			Date:         strings.TrimSpace(row[cols["Date"]]),
			Team:         strings.TrimSpace(row[cols["Team"]]),
			Opponent:     strings.TrimSpace(row[cols["Opponent"]]),
			Position:     models.Position(strings.TrimSpace(row[cols["Position"]])),
			BattingOrder: order,
			Points:       points,
		}
		if !rec.Position.IsPitcher() {
			rec.OpposingPitcher = opposingPitcherFrom(rec.Opponent)
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadSlateEntries reads the current slate table.
func LoadSlateEntries(path, slateDate string) ([]models.SlateEntry, error) {
	rows, header, err := readTable(path)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "Name", "ID", "Position", "Salary", "Game", "Team", "Opponent", "Order", "Opp_Pitcher", "Projection")
	if err != nil {
		return nil, fmt.Errorf("slate table %s: %w", path, err)
	}

	entries := make([]models.SlateEntry, 0, len(rows))
	for i, row := range rows {
		salary, err := parseInt(row[cols["Salary"]])
		if err != nil {
			return nil, fmt.Errorf("slate table %s row %d: bad Salary value: %w", path, i+2, err)
		}
		order, err := parseOrder(row[cols["Order"]])
		if err != nil {
			return nil, fmt.Errorf("slate table %s row %d: bad Order value: %w", path, i+2, err)
		}
		projection, err := parseFloat(row[cols["Projection"]])
		if err != nil {
			return nil, fmt.Errorf("slate table %s row %d: bad Projection value: %w", path, i+2, err)
		}

		entries = append(entries, models.SlateEntry{
			PlayerID:          strings.TrimSpace(row[cols["ID"]]),
			SlateDate:         slateDate,
			Name:              strings.TrimSpace(row[cols["Name"]]),
			Position:          models.Position(strings.TrimSpace(row[cols["Position"]])),
			Salary:            salary,
			Game:              strings.TrimSpace(row[cols["Game"]]),
			Team:              strings.TrimSpace(row[cols["Team"]]),
			Opponent:          strings.TrimSpace(row[cols["Opponent"]]),
			BattingOrder:      order,
			OpposingPitcherID: strings.TrimSpace(row[cols["Opp_Pitcher"]]),
			Projection:        projection,
		})
	}
	return entries, nil
}

// LoadStdDevs reads the optional per-player standard-deviation table.
func LoadStdDevs(path string) (map[string]float64, error) {
	rows, header, err := readTable(path)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "Name", "StdDev")
	if err != nil {
		return nil, fmt.Errorf("stddev table %s: %w", path, err)
	}

	stds := make(map[string]float64, len(rows))
	for i, row := range rows {
		std, err := parseFloat(row[cols["StdDev"]])
		if err != nil {
			return nil, fmt.Errorf("stddev table %s row %d: bad StdDev value: %w", path, i+2, err)
		}
		stds[strings.TrimSpace(row[cols["Name"]])] = std
	}
	return stds, nil
}

func readTable(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("table %s is empty", path)
	}
	return all[1:], all[0], nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

// opposingPitcherFrom extracts the pitcher identity from a batter's opponent
// cell. A cell with no comma carries no pitcher designation.
func opposingPitcherFrom(opponent string) string {
	name, _, found := strings.Cut(opponent, ",")
	if !found {
		return ""
	}
	return strings.TrimSpace(name)
}

// parseOrder converts a batting-order cell. "-" and empty mark non-starters.
func parseOrder(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return models.OrderNone, nil
	}
	order, err := strconv.Atoi(s)
	if err != nil {
		// Slate feeds sometimes serialize order as a float.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		order = int(f)
	}
	return order, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
