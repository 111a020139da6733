package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/mfelder/voxfill/internal/form"
)

type fakeChatModel struct {
	response string
	err      error
	messages []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, messages []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.response, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func testCatalog() form.Catalog {
	return form.Catalog{
		{ID: "name", Kind: form.KindText},
		{ID: "email", Kind: form.KindEmail},
		{ID: "birthday", Kind: form.KindDate},
		{ID: "gender-m", Kind: form.KindRadio, GroupName: "gender", OptionValue: "male"},
		{ID: "gender-f", Kind: form.KindRadio, GroupName: "gender", OptionValue: "female"},
		{ID: "i-1", Kind: form.KindCheckbox, GroupName: "interests", OptionValue: "sports"},
		{ID: "i-2", Kind: form.KindCheckbox, GroupName: "interests", OptionValue: "music"},
	}
}

func TestExtractEmptyTextIsInvalidInput(t *testing.T) {
	service := NewService(&fakeChatModel{}, nil)

	_, err := service.Extract(context.Background(), "   ", testCatalog(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractParsesStructuredResponse(t *testing.T) {
	chatModel := &fakeChatModel{
		response: `{"name":"john doe","email":" John@Example.COM ","birthday":"01.02.1990","gender":"female","interests":["sports","music"]}`,
	}
	service := NewService(chatModel, nil)

	values, err := service.Extract(context.Background(), "my name is john doe", testCatalog(), "")
	require.NoError(t, err)
	require.Equal(t, "John doe", values["name"].Text)
	require.Equal(t, "john@example.com", values["email"].Text)
	require.Equal(t, "1990-02-01", values["birthday"].Text)
	require.Equal(t, "female", values["gender"].Text)
	require.Equal(t, []string{"sports", "music"}, values["interests"].Choices)
}

func TestExtractSendsInstructionAndSourceText(t *testing.T) {
	chatModel := &fakeChatModel{response: `{}`}
	service := NewService(chatModel, nil)

	_, err := service.Extract(context.Background(), "some text", testCatalog(), "")
	require.NoError(t, err)
	require.Len(t, chatModel.messages, 2)
	require.Equal(t, schema.System, chatModel.messages[0].Role)
	require.Contains(t, chatModel.messages[0].Content, `"gender"`)
	require.Equal(t, schema.User, chatModel.messages[1].Role)
	require.Equal(t, "some text", chatModel.messages[1].Content)
}

func TestExtractPromptOverrideReplacesInstruction(t *testing.T) {
	chatModel := &fakeChatModel{response: `{}`}
	service := NewService(chatModel, nil)

	_, err := service.Extract(context.Background(), "text", testCatalog(), "custom instruction")
	require.NoError(t, err)
	require.Equal(t, "custom instruction", chatModel.messages[0].Content)
}

func TestExtractModelFailureIsServiceError(t *testing.T) {
	service := NewService(&fakeChatModel{err: errors.New("backend unreachable")}, nil)

	_, err := service.Extract(context.Background(), "text", testCatalog(), "")
	require.ErrorIs(t, err, ErrService)
	require.Contains(t, err.Error(), "backend unreachable")
}

func TestExtractUnparseableResponseIsServiceError(t *testing.T) {
	service := NewService(&fakeChatModel{response: "I could not help with that."}, nil)

	_, err := service.Extract(context.Background(), "text", testCatalog(), "")
	require.ErrorIs(t, err, ErrService)
}

func TestExtractStripsMarkdownFence(t *testing.T) {
	chatModel := &fakeChatModel{response: "```json\n{\"name\":\"jane\"}\n```"}
	service := NewService(chatModel, nil)

	values, err := service.Extract(context.Background(), "jane", testCatalog(), "")
	require.NoError(t, err)
	require.Equal(t, "Jane", values["name"].Text)
}

func TestExtractDropsKeysOutsideCatalog(t *testing.T) {
	chatModel := &fakeChatModel{response: `{"name":"jane","hallucinated":"x"}`}
	service := NewService(chatModel, nil)

	values, err := service.Extract(context.Background(), "jane", testCatalog(), "")
	require.NoError(t, err)
	require.NotContains(t, values, "hallucinated")
}
