package settings

// 设置表里的固定键名。
const (
	AssistSettingName = "assist"
	GateSettingName   = "gate"
)

// Tones accepted by the assist prompt builders.
const (
	ToneNeutral = "neutral"
	ToneFormal  = "formal"
	ToneConcise = "concise"
)

// Local endpoint API flavors.
const (
	LocalAPIOpenAI      = "openai"
	LocalAPIOllama      = "ollama"
	LocalAPILMStudio    = "lmstudio"
	LocalAPIHuggingFace = "huggingface"
)

// ConsentFlags 是逐特性的同意开关；对应特性在开关为 true 前不得调用 LLM。
type ConsentFlags struct {
	Generation bool `json:"generation"`
	Analysis   bool `json:"analysis"`
	Rewriting  bool `json:"rewriting"`
}

// Redaction 控制提示词出进程前的脱敏。
type Redaction struct {
	StripContactInfo bool `json:"strip_contact_info"`
}

// AssistSettings 是 LLM 助手的完整设置记录。
// 不变量：SessionOnly 为 true 时 APIKeys 永不落盘，只存在于进程内存。
type AssistSettings struct {
	ProviderID    string            `json:"provider_id"`
	APIKeys       map[string]string `json:"api_keys"`
	SessionOnly   bool              `json:"session_only"`
	Consent       ConsentFlags      `json:"consent"`
	Redaction     Redaction         `json:"redaction"`
	Tone          string            `json:"tone"`
	LocalEndpoint string            `json:"local_endpoint"`
	LocalModel    string            `json:"local_model"`
	LocalAPIType  string            `json:"local_api_type"`
}

// Defaults 返回全新安装的设置。
func Defaults() AssistSettings {
	return AssistSettings{
		ProviderID:   "",
		APIKeys:      map[string]string{},
		SessionOnly:  true,
		Tone:         ToneNeutral,
		LocalAPIType: LocalAPIOpenAI,
	}
}

// Clone 返回可独立修改的副本。
func (s AssistSettings) Clone() AssistSettings {
	out := s
	out.APIKeys = make(map[string]string, len(s.APIKeys))
	for k, v := range s.APIKeys {
		out.APIKeys[k] = v
	}
	return out
}

// GateSetting 保存本地口令门禁的 bcrypt 哈希与签名密钥。
type GateSetting struct {
	PassphraseHash string `json:"passphrase_hash"`
	TokenSecret    string `json:"token_secret"`
}
