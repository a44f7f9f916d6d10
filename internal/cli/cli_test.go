package cli

import "testing"

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("DEEPL_API_KEY", "dk")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("OPENAI_API_KEY", "ok")
	t.Setenv("ANTHROPIC_API_KEY", "ak")

	creds := credentialsFromEnv()

	if creds.DeepLKey != "dk" {
		t.Errorf("DeepLKey = %q, want %q", creds.DeepLKey, "dk")
	}
	if creds.GeminiKey != "gk" {
		t.Errorf("GeminiKey = %q, want %q", creds.GeminiKey, "gk")
	}
	if creds.OpenAIKey != "ok" {
		t.Errorf("OpenAIKey = %q, want %q", creds.OpenAIKey, "ok")
	}
	if creds.AnthropicKey != "ak" {
		t.Errorf("AnthropicKey = %q, want %q", creds.AnthropicKey, "ak")
	}
}
