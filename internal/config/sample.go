package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# bfhl configuration
version: "1.0"

# Remote service
client:
  # URL the JSON payload is POSTed to
  endpoint: "https://akshat-bajaj-backend-1.onrender.com/bfhl"
  # Request deadline; 0 waits for the transport
  timeout: 0s
  # Extra attempts after a failed request; 0 sends exactly one request
  max_retries: 0

# Filters selected when the widget opens or when submit gets no --filter
# One of: Alphabets, Numbers, Highest lowercase alphabet
filters:
  default: []

output:
  # text | json | markdown
  default_format: text
  # auto | always | never
  color_mode: auto
  verbose: false
  no_emoji: false

ui:
  # default | high-contrast | minimal
  theme: default
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
client:
  endpoint: "https://akshat-bajaj-backend-1.onrender.com/bfhl"
filters:
  default: [Alphabets]
`
}
