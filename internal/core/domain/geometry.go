package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	defaultScalePercent = 100
	aspectTolerance     = 1e-9
)

// MaxTargetDimension bounds resolved sides, so oversized requests saturate instead of overflowing.
const MaxTargetDimension = math.MaxInt32

// ResolveGeometry computes the output size for a source of srcW×srcH and, when smart focus
// applies, the centered source crop matching the target aspect ratio. Unusable resize input
// falls back to the original size or to 100% instead of failing.
func ResolveGeometry(srcW, srcH int, cfg TransformConfig) Geometry {
	g := Geometry{TargetWidth: srcW, TargetHeight: srcH}
	if srcW <= 0 || srcH <= 0 {
		return g
	}

	resized := false

	switch cfg.Resize {
	case ResizeCustom:
		w, wok := parseLeadingInt(cfg.Width)
		h, hok := parseLeadingInt(cfg.Height)
		if wok && hok && w > 0 && h > 0 {
			g.TargetWidth, g.TargetHeight = min(w, MaxTargetDimension), min(h, MaxTargetDimension)
			resized = true
		}
	case ResizeScale:
		p, ok := parseLeadingInt(cfg.Percent)
		if !ok || p <= 0 {
			p = defaultScalePercent
		}
		g.TargetWidth = scaleDimension(srcW, p)
		g.TargetHeight = scaleDimension(srcH, p)
		resized = true
	}

	if resized && cfg.SmartFocus {
		g.Crop = focusCrop(srcW, srcH, g.TargetWidth, g.TargetHeight)
	}

	return g
}

func scaleDimension(size, percent int) int {
	scaled := math.Round(float64(size) * float64(percent) / 100)
	switch {
	case scaled < 1:
		return 1
	case scaled > MaxTargetDimension:
		return MaxTargetDimension
	}
	return int(scaled)
}

// CheckDimensions refuses a geometry whose target exceeds maxDimension on either side. A maxDimension of
// zero or less disables the check.
func CheckDimensions(g Geometry, maxDimension int) error {
	if maxDimension > 0 && (g.TargetWidth > maxDimension || g.TargetHeight > maxDimension) {
		return &TargetSizeError{Width: g.TargetWidth, Height: g.TargetHeight, Max: maxDimension}
	}
	return nil
}

func focusCrop(srcW, srcH, dstW, dstH int) *Rect {
	sw, sh := float64(srcW), float64(srcH)
	targetAspect := float64(dstW) / float64(dstH)
	sourceAspect := sw / sh

	if math.Abs(sourceAspect-targetAspect) <= aspectTolerance*math.Max(sourceAspect, targetAspect) {
		return nil
	}

	if sourceAspect > targetAspect {
		width := math.Min(sh*targetAspect, sw)
		return &Rect{X: (sw - width) / 2, Y: 0, Width: width, Height: sh}
	}

	height := math.Min(sw/targetAspect, sh)
	return &Rect{X: 0, Y: (sh - height) / 2, Width: sw, Height: height}
}

// parseLeadingInt reads the integer prefix of s, so "400px" and "400.5" both yield 400.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		return n, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
