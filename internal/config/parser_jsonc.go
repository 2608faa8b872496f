package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

type jsoncConfig struct {
	Driver   *jsoncDriver   `json:"driver"`
	Dispatch *jsoncDispatch `json:"dispatch"`
	Gesture  *jsoncGesture  `json:"gesture"`
	Layout   *jsoncLayout   `json:"layout"`
}

type jsoncDriver struct {
	ServerSocketDir *string `json:"server_socket_dir"`
	ClientSocketDir *string `json:"client_socket_dir"`

	ReceiveTimeoutMS    *int `json:"receive_timeout_ms"`
	HeartbeatIntervalMS *int `json:"heartbeat_interval_ms"`
	HeartbeatDeadlineMS *int `json:"heartbeat_deadline_ms"`
	SettleDelayMS       *int `json:"settle_delay_ms"`
	ReadyDeadlineMS     *int `json:"ready_deadline_ms"`
	MonitorIntervalMS   *int `json:"monitor_interval_ms"`
}

type jsoncDispatch struct {
	SocketPath  *string `json:"socket_path"`
	SocketGroup *string `json:"socket_group"`
}

type jsoncGesture struct {
	TapHoldMS          *int `json:"tap_hold_ms"`
	LongPressDefaultMS *int `json:"long_press_default_ms"`
	DoubleTapHoldMS    *int `json:"double_tap_hold_ms"`
	DoubleTapGapMS     *int `json:"double_tap_gap_ms"`

	DragInitialHoldMS     *int `json:"drag_initial_hold_ms"`
	DragDefaultDurationMS *int `json:"drag_default_duration_ms"`
	DragSteps             *int `json:"drag_steps"`

	SwipeDefaultDurationMS *int     `json:"swipe_default_duration_ms"`
	SwipeSteps             *int     `json:"swipe_steps"`
	SwipeWheelScale        *float64 `json:"swipe_wheel_scale"`

	KeyDelayMS     *int `json:"key_delay_ms"`
	DeadKeyDelayMS *int `json:"dead_key_delay_ms"`
}

type jsoncLayout struct {
	TablePath *string `json:"table_path"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) {
	if payload.Driver != nil {
		if payload.Driver.ServerSocketDir != nil {
			cfg.Driver.ServerSocketDir = strings.TrimSpace(*payload.Driver.ServerSocketDir)
		}
		if payload.Driver.ClientSocketDir != nil {
			cfg.Driver.ClientSocketDir = strings.TrimSpace(*payload.Driver.ClientSocketDir)
		}
		applyMillis(&cfg.Driver.ReceiveTimeout, payload.Driver.ReceiveTimeoutMS)
		applyMillis(&cfg.Driver.HeartbeatInterval, payload.Driver.HeartbeatIntervalMS)
		applyMillis(&cfg.Driver.HeartbeatDeadline, payload.Driver.HeartbeatDeadlineMS)
		applyMillis(&cfg.Driver.SettleDelay, payload.Driver.SettleDelayMS)
		applyMillis(&cfg.Driver.ReadyDeadline, payload.Driver.ReadyDeadlineMS)
		applyMillis(&cfg.Driver.MonitorInterval, payload.Driver.MonitorIntervalMS)
	}

	if payload.Dispatch != nil {
		if payload.Dispatch.SocketPath != nil {
			cfg.Dispatch.SocketPath = strings.TrimSpace(*payload.Dispatch.SocketPath)
		}
		if payload.Dispatch.SocketGroup != nil {
			cfg.Dispatch.SocketGroup = strings.TrimSpace(*payload.Dispatch.SocketGroup)
		}
	}

	if payload.Gesture != nil {
		applyMillis(&cfg.Gesture.TapHold, payload.Gesture.TapHoldMS)
		applyMillis(&cfg.Gesture.LongPressDefault, payload.Gesture.LongPressDefaultMS)
		applyMillis(&cfg.Gesture.DoubleTapHold, payload.Gesture.DoubleTapHoldMS)
		applyMillis(&cfg.Gesture.DoubleTapGap, payload.Gesture.DoubleTapGapMS)
		applyMillis(&cfg.Gesture.DragInitialHold, payload.Gesture.DragInitialHoldMS)
		applyMillis(&cfg.Gesture.DragDefaultDuration, payload.Gesture.DragDefaultDurationMS)
		if payload.Gesture.DragSteps != nil {
			cfg.Gesture.DragSteps = *payload.Gesture.DragSteps
		}
		applyMillis(&cfg.Gesture.SwipeDefaultDuration, payload.Gesture.SwipeDefaultDurationMS)
		if payload.Gesture.SwipeSteps != nil {
			cfg.Gesture.SwipeSteps = *payload.Gesture.SwipeSteps
		}
		if payload.Gesture.SwipeWheelScale != nil {
			cfg.Gesture.SwipeWheelScale = *payload.Gesture.SwipeWheelScale
		}
		applyMillis(&cfg.Gesture.KeyDelay, payload.Gesture.KeyDelayMS)
		applyMillis(&cfg.Gesture.DeadKeyDelay, payload.Gesture.DeadKeyDelayMS)
	}

	if payload.Layout != nil && payload.Layout.TablePath != nil {
		cfg.Layout.TablePath = strings.TrimSpace(*payload.Layout.TablePath)
	}
}

func applyMillis(dst *time.Duration, src *int) {
	if src != nil {
		*dst = time.Duration(*src) * time.Millisecond
	}
}

// normalizeJSONC strips comments and trailing commas while preserving byte
// offsets inside strings so decode errors map back to readable positions.
func normalizeJSONC(content string) (string, error) {
	stripped, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(stripped), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
