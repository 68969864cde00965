package ai

import (
	"context"
	"strings"
	"time"

	"VoiceCompanion/internal/service/history"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

// OpenAIClient generates replies through the OpenAI Responses API. Each call
// is stateless: persona and context summary go in as system input, the
// history window is replayed as alternating user/assistant items, then the
// current message.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	persona string
	logger  *zap.SugaredLogger
}

func NewOpenAIClient(client *openai.Client, model string, persona string, logger *zap.SugaredLogger) *OpenAIClient {
	return &OpenAIClient{client: client, model: model, persona: persona, logger: logger}
}

func (c *OpenAIClient) Reply(ctx context.Context, message string, conversation []history.Message, contextSummary string) (string, error) {
	items := make(responses.ResponseInputParam, 0, len(conversation)+3)

	if st := strings.TrimSpace(c.persona); st != "" {
		items = append(items, inputMessage(st, responses.EasyInputMessageRoleSystem))
	}
	if cs := strings.TrimSpace(contextSummary); cs != "" {
		items = append(items, inputMessage(cs, responses.EasyInputMessageRoleSystem))
	}
	for _, m := range conversation {
		if m.Role == history.RoleAssistant {
			items = append(items, outputMessage(m.Content))
		} else {
			items = append(items, inputMessage(m.Content, responses.EasyInputMessageRoleUser))
		}
	}
	items = append(items, inputMessage(message, responses.EasyInputMessageRoleUser))

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: items},
	})
	if err != nil {
		c.logger.Errorw("openai request failed", "duration", time.Since(start).String(), "error", err)
		return "", err
	}
	c.logger.Debugw("openai request done", "duration", time.Since(start).String())
	return resp.OutputText(), nil
}

func inputMessage(text string, role responses.EasyInputMessageRole) responses.ResponseInputItemUnionParam {
	return responses.ResponseInputItemParamOfMessage(
		responses.ResponseInputMessageContentListParam{
			{OfInputText: &responses.ResponseInputTextParam{Text: text}},
		},
		role,
	)
}

// outputMessage wraps prior assistant text. The Responses API takes
// assistant turns as output_message items with output_text content.
func outputMessage(text string) responses.ResponseInputItemUnionParam {
	var out responses.ResponseOutputTextParam
	out.Text = text
	return responses.ResponseInputItemParamOfOutputMessage(
		[]responses.ResponseOutputMessageContentUnionParam{{OfOutputText: &out}},
		"", // id is optional for input output_message items
		responses.ResponseOutputMessageStatusCompleted,
	)
}
