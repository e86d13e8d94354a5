// Package parsers turns delimiter-framed model output into typed results.
// The evaluator and reflector prompts instruct the model to emit records of
// the form (type<||>value) separated by ## and terminated by <|COMPLETE|>;
// parsing failures here surface as request-scoped ParseError failures.
package parsers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	errx "github.com/storefront-agent-poc/server/internal/core/error"
	logx "github.com/storefront-agent-poc/server/pkg/logger"

	"github.com/storefront-agent-poc/server/internal/agent/model"
)

const (
	RecDelim = "##"
	TupDelim = "<||>"
	EndDelim = "<|COMPLETE|>"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxRecords    = 500        // maximum number of records to process
	maxTupleLen   = 8 * 1024   // 8KB per tuple
	maxErrSnippet = 200        // limit error snippet size
)

type rawTuple struct {
	Type  string
	Parts []string
}

func parseRawTuple(s string) (*rawTuple, error) {
	if s == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	// enforce a sane upper bound per record
	if len(s) > maxTupleLen {
		return nil, fmt.Errorf("tuple too large")
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple parens")
	}
	// remove the outermost parens only
	inner := s[1 : len(s)-1]
	parts := strings.SplitN(inner, TupDelim, 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid tuple parts")
	}
	return &rawTuple{Type: strings.TrimSpace(parts[0]), Parts: parts}, nil
}

func splitRecords(content string) []string {
	if idx := strings.Index(content, EndDelim); idx >= 0 {
		content = content[:idx]
	}
	return strings.Split(content, RecDelim)
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}

func validText(s string) bool {
	return s != "" && utf8.ValidString(s)
}

// ParseEvaluation extracts an evaluation from evaluator output. A response
// with no valid score record is a parse failure; malformed secondary records
// are skipped and noted in the evaluation metadata.
func ParseEvaluation(content string) (eval *model.Evaluation, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "seo_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("seo parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			eval = nil
		}
	}()

	truncated := false
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "seo_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
		truncated = true
	}

	eval = &model.Evaluation{
		Score:    -1,
		Metadata: map[string]any{"parsed_at": time.Now().UTC()},
	}
	if truncated {
		eval.Metadata["truncated"] = true
	}

	addErr := func(msg string) {
		v, _ := eval.Metadata["parsing_errors"].([]string)
		eval.Metadata["parsing_errors"] = append(v, msg)
	}

	processed := 0
	for _, rec := range splitRecords(content) {
		if processed >= maxRecords {
			eval.Metadata["records_capped"] = true
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		processed++

		rt, rerr := parseRawTuple(rec)
		if rerr != nil {
			addErr(fmt.Sprintf("bad_record: %s", safeSnippet(rec)))
			continue
		}

		val := strings.TrimSpace(rt.Parts[1])
		switch rt.Type {
		case "score":
			v, perr := strconv.ParseFloat(val, 64)
			if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
				addErr("score: invalid value")
				continue
			}
			eval.Score = v
		case "keyword":
			if !validText(val) {
				addErr("keyword: invalid text")
				continue
			}
			eval.Keywords = append(eval.Keywords, val)
		case "missing":
			if !validText(val) {
				addErr("missing: invalid text")
				continue
			}
			eval.Missing = append(eval.Missing, val)
		case "suggestion":
			if !validText(val) {
				addErr("suggestion: invalid text")
				continue
			}
			eval.Suggestions = append(eval.Suggestions, val)
		default:
			// ignore unknown type but record a hint
			addErr("unknown tuple type")
		}
	}

	if eval.Score < 0 {
		return nil, errx.WrapParse(fmt.Errorf("no valid score record in evaluator output"))
	}
	return eval, nil
}

// lessonPrefix normalizes reflector lessons into the prescriptive "Next
// time, ..." form the actor prompt expects.
const lessonPrefix = "Next time"

// ParseLessons extracts 1-3 lessons from reflector output. A response with
// no valid lesson record is a parse failure.
func ParseLessons(content string) (lessons []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "seo_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("seo parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			lessons = nil
		}
	}()

	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}

	processed := 0
	for _, rec := range splitRecords(content) {
		if processed >= maxRecords {
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		processed++

		rt, rerr := parseRawTuple(rec)
		if rerr != nil || rt.Type != "lesson" {
			continue
		}
		lesson := strings.TrimSpace(rt.Parts[1])
		if !validText(lesson) {
			continue
		}
		if !strings.HasPrefix(lesson, lessonPrefix) {
			lesson = lessonPrefix + ", " + lesson
		}
		lessons = append(lessons, lesson)
	}

	if len(lessons) == 0 {
		return nil, errx.WrapParse(fmt.Errorf("no valid lesson record in reflector output"))
	}
	if len(lessons) > 3 {
		lessons = lessons[:3]
	}
	return lessons, nil
}
