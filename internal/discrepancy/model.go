package discrepancy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/JaimeStill/landmark/internal/prompts"
	"github.com/JaimeStill/landmark/pkg/formatting"
)

const verdictTool = "submit_verdict"

// Generator is the chat completion surface used by the model checker.
// *ark.ChatModel satisfies it.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// PromptSource supplies system instructions and the output specification.
type PromptSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

type modelChecker struct {
	chat    Generator
	prompts PromptSource
	logger  *slog.Logger
	tool    *schema.ToolInfo
}

// NewModelChecker returns a checker that asks a chat model for a verdict through
// a forced submit_verdict tool call. A plain JSON reply is accepted as a fallback.
func NewModelChecker(chat Generator, source PromptSource, logger *slog.Logger) Checker {
	return &modelChecker{
		chat:    chat,
		prompts: source,
		logger:  logger.With("system", "discrepancy"),
		tool: &schema.ToolInfo{
			Name: verdictTool,
			Desc: "Report whether the submitted address disagrees with the reference address",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"is_discrepant": {
					Type:     schema.Boolean,
					Desc:     "true when the two addresses describe different locations",
					Required: true,
				},
				"reason": {
					Type:     schema.String,
					Desc:     "which components differ; empty when is_discrepant is false",
					Required: true,
				},
			}),
		},
	}
}

func (c *modelChecker) Check(ctx context.Context, submitted, reference string) (Verdict, error) {
	system, err := c.systemPrompt(ctx)
	if err != nil {
		return Verdict{}, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(fmt.Sprintf("Submitted address: %s\nReference address: %s", submitted, reference)),
	}

	msg, err := c.chat.Generate(
		ctx,
		messages,
		model.WithTools([]*schema.ToolInfo{c.tool}),
		model.WithToolChoice(schema.ToolChoiceForced),
	)
	if err != nil {
		return Verdict{}, fmt.Errorf("generate verdict: %w", err)
	}
	if msg == nil {
		return Verdict{}, fmt.Errorf("%w: empty response", ErrSchema)
	}

	v, err := c.decode(msg)
	if err != nil {
		return Verdict{}, err
	}

	return v.Normalize()
}

func (c *modelChecker) systemPrompt(ctx context.Context) (string, error) {
	instructions, err := c.prompts.Instructions(ctx, prompts.StageDiscrepancy)
	if err != nil {
		return "", fmt.Errorf("load instructions: %w", err)
	}
	spec, err := c.prompts.Spec(ctx, prompts.StageDiscrepancy)
	if err != nil {
		return "", fmt.Errorf("load spec: %w", err)
	}
	return instructions + "\n\n" + spec, nil
}

func (c *modelChecker) decode(msg *schema.Message) (Verdict, error) {
	for _, tc := range msg.ToolCalls {
		if !strings.EqualFold(tc.Function.Name, verdictTool) {
			continue
		}
		return parseArguments(tc.Function.Arguments)
	}

	c.logger.Debug("no tool call in response, parsing content")
	v, err := formatting.Parse[rawVerdict](msg.Content)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return v.verdict()
}

// rawVerdict distinguishes a missing is_discrepant field from false.
type rawVerdict struct {
	IsDiscrepant *bool  `json:"is_discrepant"`
	Reason       string `json:"reason"`
}

func (r rawVerdict) verdict() (Verdict, error) {
	if r.IsDiscrepant == nil {
		return Verdict{}, fmt.Errorf("%w: missing is_discrepant", ErrSchema)
	}
	return Verdict{IsDiscrepant: *r.IsDiscrepant, Reason: r.Reason}, nil
}

func parseArguments(args string) (Verdict, error) {
	var r rawVerdict
	if err := json.Unmarshal([]byte(args), &r); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return r.verdict()
}
