// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package aiservice adapts the external generative-insight endpoint.
// It owns everything between "normalized metrics in" and "insight list
// out": prompt construction, the upstream LLM call with its timeout,
// the 1-hour response cache, the request rate limiter, and the mapping
// of every failure mode onto a tagged fallback response. Its contract
// with callers is that an insight request is never a hard failure.
package aiservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// secretPath is checked when OPENAI_API_KEY is unset; container
// deployments mount the credential there.
const secretPath = "/run/secrets/openai_api_key"

const systemPrompt = "You are an environmental-health-and-safety advisor. " +
	"Given workplace safety metrics, respond with concise, actionable " +
	"recommendations. Separate each recommendation with a blank line. " +
	"Do not number them."

// LLMClient is the minimal surface the adapter needs from a generative
// backend.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient calls the OpenAI chat-completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient reads the credential from OPENAI_API_KEY or the
// mounted secret file. A missing credential is an error; the caller
// decides whether that means permanent fallback mode.
func NewOpenAIClient(model string) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err != nil {
			return nil, fmt.Errorf("OPENAI_API_KEY not set and secret not found at %s", secretPath)
		}
		apiKey = strings.TrimSpace(string(apiKeyBytes))
		slog.Info("read OpenAI API key from mounted secret")
	}
	if model == "" {
		model = defaultModel
		slog.Warn("model not configured, defaulting", "model", model)
	}
	slog.Info("initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate implements LLMClient.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ LLMClient = (*OpenAIClient)(nil)
