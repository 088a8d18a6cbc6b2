package main

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// TickSample is one row of the per-tick CSV.
type TickSample struct {
	Tick          uint64  `csv:"tick"`
	StepMicros    int64   `csv:"step_us"`
	Entities      int     `csv:"entities"`
	Visuals       int     `csv:"visuals"`
	ShotsFired    int     `csv:"shots_fired"`
	ShotsHit      int     `csv:"shots_hit"`
	DecalsSpawned int     `csv:"decals_spawned"`
	Dropped       int     `csv:"dropped"`
	Yaw           float64 `csv:"yaw"`
}

// sampleWriter appends TickSamples to w, writing the header once.
type sampleWriter struct {
	w             io.Writer
	headerWritten bool
	rows          int
}

func newSampleWriter(w io.Writer) *sampleWriter {
	return &sampleWriter{w: w}
}

func (s *sampleWriter) Write(sample TickSample) error {
	if s == nil {
		return nil
	}

	records := []TickSample{sample}
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.w); err != nil {
			return fmt.Errorf("writing sample: %w", err)
		}
		s.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, s.w); err != nil {
			return fmt.Errorf("writing sample: %w", err)
		}
	}
	s.rows++
	return nil
}
