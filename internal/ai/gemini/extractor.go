package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/utils"

	"go.uber.org/zap"
)

//go:embed job_prompt.md
var jobPromptTemplate string

//go:embed resume_prompt.md
var resumePromptTemplate string

const maxLogLength = 200

// ExtractJob pulls title, company, skills and required experience out of one
// posting.
func (c *Client) ExtractJob(ctx context.Context, record job.Record) (*ai.JobFacts, error) {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal posting payload: %w", err)
	}

	prompt := strings.ReplaceAll(jobPromptTemplate, "{{JOB_JSON}}", string(payload))

	c.logger.Debug("gemini job extraction request",
		zap.String("job_id", record.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := c.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini job extraction response",
		zap.String("job_id", record.ID),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
	)

	data, err := parseJSONResponse(raw)
	if err != nil {
		return nil, err
	}

	return &ai.JobFacts{
		Title:      coerceString(data["title"]),
		Company:    coerceString(data["company"]),
		Skills:     coerceStrings(data["skills"]),
		Experience: coerceInt(data["experience"]),
	}, nil
}

// ExtractResume pulls name, skills and total experience out of resume text.
func (c *Client) ExtractResume(ctx context.Context, resume string) (*ai.ResumeFacts, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	prompt := strings.ReplaceAll(resumePromptTemplate, "{{RESUME_TEXT}}", resume)

	raw, err := c.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini resume extraction response",
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
	)

	data, err := parseJSONResponse(raw)
	if err != nil {
		return nil, err
	}

	return &ai.ResumeFacts{
		Name:       coerceString(data["name"]),
		Skills:     coerceStrings(data["skills"]),
		Experience: coerceInt(data["experience"]),
	}, nil
}

func parseJSONResponse(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return data, nil
}

// extractJSON strips a markdown code fence when the model wraps its output in
// one.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s := coerceString(v); s != "" {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}
