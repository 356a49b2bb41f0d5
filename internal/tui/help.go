package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit     key.Binding
	NextView key.Binding
	Login    key.Binding
	Logout   key.Binding
	Focus    key.Binding
	Select   key.Binding
	Back     key.Binding

	Save      key.Binding
	CopyText  key.Binding
	EditTags  key.Binding
	Rename    key.Binding
	Scope     key.Binding
	Tree      key.Binding
	NextRoot  key.Binding
	Comment   key.Binding
	React     key.Binding
	Unreact   key.Binding
	NewTeam   key.Binding
	AddMember key.Binding
	Remove    key.Binding
	Role      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextView: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "switch screen")),
		Login:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log in")),
		Logout:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "log out")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/send")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save summary")),
		CopyText:  key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy summary")),
		EditTags:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "edit tags")),
		Rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Scope:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter scope")),
		Tree:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tree view")),
		NextRoot:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next root")),
		Comment:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comments")),
		React:     key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "react")),
		Unreact:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove reaction")),
		NewTeam:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new team")),
		AddMember: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add member")),
		Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Role:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle role")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " | ")
}
