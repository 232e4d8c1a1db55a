// Package chat implements the scripted wellbeing chat.
package chat

import (
	"strings"

	"github.com/verte-zerg/calma/internal/model"
)

// Predicate decides whether a rule applies to a lower-cased message.
type Predicate func(message string) bool

// Rule pairs a predicate with a canned reply.
type Rule struct {
	Name  string
	Match Predicate
	Reply string
}

// ContainsAny matches when the message contains any keyword.
func ContainsAny(keywords ...string) Predicate {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return func(message string) bool {
		for _, kw := range lowered {
			if strings.Contains(message, kw) {
				return true
			}
		}
		return false
	}
}

// Responder evaluates rules in order; the first match wins.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder returns a responder over rules.
func NewResponder(rules []Rule, fallback string) *Responder {
	return &Responder{rules: append([]Rule(nil), rules...), fallback: fallback}
}

// FromScript builds a responder from the snapshot chat script.
func FromScript(script model.ChatScript) *Responder {
	rules := make([]Rule, 0, len(script.Rules))
	for _, r := range script.Rules {
		rules = append(rules, Rule{
			Name:  r.Name,
			Match: ContainsAny(r.Keywords...),
			Reply: r.Reply,
		})
	}
	return NewResponder(rules, script.Fallback)
}

// Respond returns the reply for message and the name of the rule that
// produced it ("" for the fallback).
func (r *Responder) Respond(message string) (string, string) {
	lowered := strings.ToLower(message)
	for _, rule := range r.rules {
		if rule.Match != nil && rule.Match(lowered) {
			return rule.Reply, rule.Name
		}
	}
	return r.fallback, ""
}
