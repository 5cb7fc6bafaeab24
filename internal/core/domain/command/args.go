package command

import (
	"errors"
	"fmt"
	"imgbot/internal/core/domain"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	convertSyntax = "/convert <jpg|png|webp|gif> [WxH | N%] [focus] [hq]"
	convertUsage  = "usage: " + convertSyntax
)

var (
	ErrConvertUsage = errors.New(convertUsage)
	sizePattern     = regexp.MustCompile(`^(\d+)[x×](\d+)$`)
	percentPattern  = regexp.MustCompile(`^(\d+)%$`)
)

// ParseConvertArgs builds the transform config for "/convert <format> [WxH | N%] [focus] [hq]". The format
// word is taken as given, so unknown formats encode as JPEG. Explicit sizes above maxDimension are refused.
func ParseConvertArgs(args string, maxDimension int) (domain.TransformConfig, error) {
	words := strings.Fields(strings.ToLower(args))
	if len(words) == 0 {
		return domain.TransformConfig{}, ErrConvertUsage
	}

	cfg := domain.TransformConfig{
		Resize:   domain.ResizeOriginal,
		Format:   domain.ParseFormat(words[0]),
		Optimize: true,
	}

	sized := false
	for _, word := range words[1:] {
		switch {
		case word == "focus":
			cfg.SmartFocus = true
		case word == "hq":
			cfg.Optimize = false
		case sizePattern.MatchString(word) && !sized:
			m := sizePattern.FindStringSubmatch(word)
			if err := checkDimensions(maxDimension, m[1], m[2]); err != nil {
				return domain.TransformConfig{}, err
			}
			cfg.Resize, cfg.Width, cfg.Height = domain.ResizeCustom, m[1], m[2]
			sized = true
		case percentPattern.MatchString(word) && !sized:
			cfg.Resize, cfg.Percent = domain.ResizeScale, percentPattern.FindStringSubmatch(word)[1]
			sized = true
		default:
			return domain.TransformConfig{}, ErrConvertUsage
		}
	}

	return cfg, nil
}

func checkDimensions(maxDimension int, values ...string) error {
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return ErrConvertUsage
		}
		if maxDimension > 0 && n > maxDimension {
			return fmt.Errorf("size %s exceeds the maximum of %d pixels", v, maxDimension)
		}
	}
	return nil
}

// OutputFileName derives "<name>_converted.<ext>" from the uploaded file name, using everything before
// its first dot.
func OutputFileName(original, extension string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	name, _, _ := strings.Cut(base, ".")
	if name == "" || name == "/" {
		name = "image"
	}
	return fmt.Sprintf("%s_converted.%s", name, extension)
}
