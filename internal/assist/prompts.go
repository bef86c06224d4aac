package assist

import (
	"fmt"
	"strings"

	"github.com/1arunjyoti/resume-builder/internal/settings"
)

// 提示词模板。语气段由用户的 tone 设置决定。
const systemPrompt = "You are an assistant embedded in a resume editor. " +
	"Answer with the rewritten or generated text only, no preamble, no markdown fences."

func toneInstruction(tone string) string {
	switch tone {
	case settings.ToneFormal:
		return "Use a formal, professional register."
	case settings.ToneConcise:
		return "Be as concise as possible; prefer short, high-impact phrases."
	default:
		return "Use a clear, neutral professional tone."
	}
}

// RewritePrompt 构造润色一段简历文本的请求。
func RewritePrompt(tone, text string) Request {
	return Request{
		System: systemPrompt,
		Prompt: fmt.Sprintf(
			"%s\nRewrite the following resume text, keeping all facts intact:\n\n%s",
			toneInstruction(tone), text,
		),
		Temperature: 0.4,
		MaxTokens:   512,
	}
}

// SummaryPrompt 根据经历要点生成个人总结。
func SummaryPrompt(tone string, highlights []string) Request {
	return Request{
		System: systemPrompt,
		Prompt: fmt.Sprintf(
			"%s\nWrite a 2-3 sentence professional summary based on these highlights:\n- %s",
			toneInstruction(tone), strings.Join(highlights, "\n- "),
		),
		Temperature: 0.6,
		MaxTokens:   256,
	}
}

// AnalysisPrompt 请求对简历文本的改进建议。
func AnalysisPrompt(tone, text string) Request {
	return Request{
		System: systemPrompt,
		Prompt: fmt.Sprintf(
			"%s\nList the three most impactful improvements for this resume section, one per line:\n\n%s",
			toneInstruction(tone), text,
		),
		Temperature: 0.3,
		MaxTokens:   384,
	}
}
