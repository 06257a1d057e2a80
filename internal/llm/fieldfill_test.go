package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/docreview-cli/internal/template"
	"github.com/sells-group/docreview-cli/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func testTemplate() template.Template {
	return template.Template{
		DocType:     "paystub",
		DisplayName: "Paystub",
		Version:     "1.0",
		Fields: []template.Field{
			{Name: "net_pay", Type: "number", Required: true},
			{Name: "employer_name", Type: "string", Required: true},
		},
	}
}

func TestFill_ParsesClaims(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "test-model" && req.Temperature != nil && *req.Temperature == 0
	})).Return(textResponse(`{"field_values":[
		{"field_name":"net_pay","value":2450.25,"confidence":0.9,"evidence":"net_pay: 2450.25"},
		{"field_name":"employer_name","value":"ACME","confidence":0.85}
	]}`), nil)

	filler := NewFieldFiller(client, "test-model")
	items, err := filler.Fill(context.Background(), "doc text", testTemplate())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "net_pay", items[0].FieldName)
	assert.Equal(t, 2450.25, items[0].Value)
	assert.Equal(t, "net_pay: 2450.25", items[0].Evidence)
	client.AssertExpectations(t)
}

func TestFill_StripsCodeFence(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n{\"field_values\":[{\"field_name\":\"net_pay\",\"value\":\"42\",\"confidence\":0.5}]}\n```"), nil)

	filler := NewFieldFiller(client, "test-model")
	items, err := filler.Fill(context.Background(), "doc text", testTemplate())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "42", items[0].Value)
}

func TestFill_DiscardsOutOfSchemaClaims(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"field_values":[
			{"field_name":"invented_field","value":"x","confidence":0.9},
			{"field_name":"net_pay","value":"42","confidence":0.9}
		]}`), nil)

	filler := NewFieldFiller(client, "test-model")
	items, err := filler.Fill(context.Background(), "doc text", testTemplate())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "net_pay", items[0].FieldName)
}

func TestFill_NoClient(t *testing.T) {
	filler := NewFieldFiller(nil, "test-model")
	_, err := filler.Fill(context.Background(), "doc text", testTemplate())

	var fillErr *FillError
	require.ErrorAs(t, err, &fillErr)
	assert.Equal(t, "no client configured", fillErr.Reason)
}

func TestFill_EmptyTemplateSkipsCall(t *testing.T) {
	client := new(mockClient)

	filler := NewFieldFiller(client, "test-model")
	items, err := filler.Fill(context.Background(), "doc text", template.Unknown())

	require.NoError(t, err)
	assert.Nil(t, items)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestFill_EmptyResponse(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("   "), nil)

	filler := NewFieldFiller(client, "test-model")
	_, err := filler.Fill(context.Background(), "doc text", testTemplate())

	var fillErr *FillError
	require.ErrorAs(t, err, &fillErr)
	assert.Equal(t, "empty response", fillErr.Reason)
}

func TestFill_UnparseableResponse(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("not json at all"), nil)

	filler := NewFieldFiller(client, "test-model")
	_, err := filler.Fill(context.Background(), "doc text", testTemplate())

	var fillErr *FillError
	require.ErrorAs(t, err, &fillErr)
	assert.Equal(t, "unparseable response", fillErr.Reason)
	assert.Error(t, fillErr.Unwrap())
}

func TestFill_RequestError(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	filler := NewFieldFiller(client, "test-model")
	_, err := filler.Fill(context.Background(), "doc text", testTemplate())

	var fillErr *FillError
	require.ErrorAs(t, err, &fillErr)
	assert.Equal(t, "request failed", fillErr.Reason)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`{"a":1}`))
}
