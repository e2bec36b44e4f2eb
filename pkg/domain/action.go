package domain

// ActionEnvelope is the transport form of an action.
// Type names the action (dotted for nested features, e.g. "add_item.set_name")
// and Payload carries its fields keyed by their snake_case names.
type ActionEnvelope struct {
	Type    string         `json:"type" yaml:"type" mapstructure:"type"`
	Payload map[string]any `json:"payload,omitempty" yaml:"payload,omitempty" mapstructure:"payload"`
}
