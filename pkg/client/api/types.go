// Package api holds the wire types exchanged with the activities backend.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TokenResponse is returned by POST /token on success.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Username    string `json:"username"`
}

// UserProfile is returned by GET /user/me.
type UserProfile struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// MessageResponse is the success body of signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ActivityDetails is one value of the GET /activities mapping.
type ActivityDetails struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Activity is a named activity.
type Activity struct {
	Name string `json:"name"`
	ActivityDetails
}

// SpotsLeft is the remaining capacity. It goes negative if the backend has
// accepted more participants than max_participants.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Activities is the GET /activities mapping, kept in the order the backend
// sent it.
type Activities []Activity

// Names returns the activity names in order.
func (a Activities) Names() []string {
	names := make([]string, len(a))
	for i, act := range a {
		names[i] = act.Name
	}
	return names
}

// Find returns the activity with the given name.
func (a Activities) Find(name string) (Activity, bool) {
	for _, act := range a {
		if act.Name == name {
			return act, true
		}
	}
	return Activity{}, false
}

// UnmarshalJSON decodes a JSON object keyed by activity name, preserving key
// order.
func (a *Activities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("activities: expected object, got %v", tok)
	}

	out := Activities{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("activities: unexpected key %v", keyTok)
		}
		var details ActivityDetails
		if err := dec.Decode(&details); err != nil {
			return fmt.Errorf("activities: decode %q: %w", name, err)
		}
		if details.Participants == nil {
			details.Participants = []string{}
		}
		out = append(out, Activity{Name: name, ActivityDetails: details})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON encodes the activities back into a name-keyed object in order.
func (a Activities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, act := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(act.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(act.ActivityDetails)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the activities as a name-keyed mapping in order.
func (a Activities) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, act := range a {
		var val yaml.Node
		if err := val.Encode(act.ActivityDetails); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: act.Name}, &val)
	}
	return node, nil
}
