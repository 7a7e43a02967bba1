package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"laptimer-ng/internal/laplog"
)

type logSummary struct {
	Sessions    int
	Laps        int
	Invalid     int
	BestSec     float64
	BestLap     int
	AverageSec  float64
	TopSpeedKmh float64
	LastStamp   string
}

type logRow struct {
	Lap         int
	DurationSec float64
	TopSpeedKmh float64
	Stamp       string
}

func parseLogRow(line string) (logRow, bool) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) != 4 {
		return logRow{}, false
	}
	lapN, err := strconv.Atoi(parts[0])
	if err != nil {
		return logRow{}, false
	}
	dur, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return logRow{}, false
	}
	speed, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return logRow{}, false
	}
	return logRow{Lap: lapN, DurationSec: dur, TopSpeedKmh: speed, Stamp: parts[3]}, true
}

func summarizeLapLog(lines []string) logSummary {
	var s logSummary
	var sum float64

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == laplog.Header {
			s.Sessions++
			continue
		}
		row, ok := parseLogRow(line)
		if !ok {
			s.Invalid++
			continue
		}

		s.Laps++
		sum += row.DurationSec
		if s.BestSec == 0 || row.DurationSec < s.BestSec {
			s.BestSec = row.DurationSec
			s.BestLap = row.Lap
		}
		if row.TopSpeedKmh > s.TopSpeedKmh {
			s.TopSpeedKmh = row.TopSpeedKmh
		}
		s.LastStamp = row.Stamp
	}
	if s.Laps > 0 {
		s.AverageSec = sum / float64(s.Laps)
	}
	return s
}

func printLogSummary(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}

	s := summarizeLapLog(lines)

	fmt.Printf("path: %s\n", path)
	fmt.Printf("sessions: %d\n", s.Sessions)
	fmt.Printf("laps: %d\n", s.Laps)
	fmt.Printf("invalid_rows: %d\n", s.Invalid)
	if s.Laps > 0 {
		fmt.Printf("best: %.2fs (lap %d)\n", s.BestSec, s.BestLap)
		fmt.Printf("average: %.2fs\n", s.AverageSec)
		fmt.Printf("top_speed_kmh: %.2f\n", s.TopSpeedKmh)
		fmt.Printf("last_lap_at: %s\n", s.LastStamp)
	}
	return nil
}
