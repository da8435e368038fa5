package command

import (
	"errors"
	"testing"

	"github.com/mirrenhall/chronicler/internal/dice"
)

func TestParseRoll(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    dice.Request
		wantErr error
	}{
		{
			name: "plain pool",
			args: []string{"5"},
			want: dice.Request{Pool: 5},
		},
		{
			name: "chance keyword",
			args: []string{"chance"},
			want: dice.Request{Pool: 0},
		},
		{
			name: "nine again",
			args: []string{"10", "9again"},
			want: dice.Request{Pool: 10, NineAgain: true},
		},
		{
			name: "eight again with rote",
			args: []string{"4", "rote", "8again"},
			want: dice.Request{Pool: 4, Rote: true, EightAgain: true},
		},
		{
			name: "ten again is the default",
			args: []string{"6", "10again"},
			want: dice.Request{Pool: 6},
		},
		{
			name: "no ten again disables explosion",
			args: []string{"6", "no10again"},
			want: dice.Request{Pool: 6, NoExplode: true},
		},
		{
			name: "arithmetic expression",
			args: []string{"3+2-1"},
			want: dice.Request{Pool: 4},
		},
		{
			name: "spaced arithmetic with modifier",
			args: []string{"3", "+", "2", "-", "1", "9again"},
			want: dice.Request{Pool: 4, NineAgain: true},
		},
		{
			name: "negative total is a chance pool",
			args: []string{"1-4"},
			want: dice.Request{Pool: -3},
		},
		{
			name: "modifiers are case-insensitive",
			args: []string{"5", "9AGAIN", "ROTE"},
			want: dice.Request{Pool: 5, NineAgain: true, Rote: true},
		},
		{
			name:    "empty args",
			args:    nil,
			wantErr: ErrEmpty,
		},
		{
			name:    "modifier without pool",
			args:    []string{"9again"},
			wantErr: ErrBadPool,
		},
		{
			name:    "unsupported no-again variant",
			args:    []string{"5", "no9again"},
			wantErr: ErrUnknownToken,
		},
		{
			name:    "garbage pool",
			args:    []string{"five"},
			wantErr: ErrBadPool,
		},
		{
			name:    "chance mixed with arithmetic",
			args:    []string{"chance+1"},
			wantErr: ErrBadPool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoll(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRoll(%v) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRoll(%v) returned error: %v", tt.args, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRoll(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Command
		wantErr error
	}{
		{
			name:    "roll command",
			content: "!roll 5 9again",
			want:    Command{Kind: KindRoll, Roll: dice.Request{Pool: 5, NineAgain: true}},
		},
		{
			name:    "help command",
			content: "!help",
			want:    Command{Kind: KindHelp},
		},
		{
			name:    "merit command joins words",
			content: "!merit area of expertise",
			want:    Command{Kind: KindMerit, Merit: "area of expertise"},
		},
		{
			name:    "command word is case-insensitive",
			content: "!ROLL chance",
			want:    Command{Kind: KindRoll, Roll: dice.Request{Pool: 0}},
		},
		{
			name:    "empty content",
			content: "   ",
			wantErr: ErrEmpty,
		},
		{
			name:    "merit without a name",
			content: "!merit",
			wantErr: ErrEmpty,
		},
		{
			name:    "unknown command",
			content: "!stats",
			wantErr: ErrUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.content, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.content, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.content, got, tt.want)
			}
		})
	}
}
