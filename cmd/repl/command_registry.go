package main

import (
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- source / schema ---
		{prefix: "source ", handler: func(a string) error { return s.cmdSource(a) }, completer: completeTableArgs},
		{prefix: "dim ", handler: func(a string) error { return s.cmdDim(a) }},
		{prefix: "measure ", handler: func(a string) error { return s.cmdMeasure(a) }},
		{prefix: "fields", handler: func(_ string) error { return s.cmdFields() }},

		// --- field edits ---
		{prefix: "add ", handler: func(a string) error { return s.cmdAdd(a) }, completer: completeFieldArgs},
		{prefix: "toggle ", handler: func(a string) error { return s.cmdToggle(a) }, completer: completeFieldArgs},
		{prefix: "remove field ", handler: func(a string) error { return s.cmdRemoveField(a) }},
		{prefix: "rename ", handler: func(a string) error { return s.cmdRename(a) }},
		{prefix: "reorder ", handler: func(a string) error { return s.cmdReorder(a) }},
		{prefix: "nest ", handler: func(a string) error { return s.cmdNest(a) }},
		{prefix: "expr ", handler: func(a string) error { return s.cmdExpr(a, false) }},
		{prefix: "agg ", handler: func(a string) error { return s.cmdExpr(a, true) }},
		{prefix: "refine ", handler: func(a string) error { return s.cmdRefine(a) }},
		{prefix: "edit refine ", handler: func(a string) error { return s.cmdEditRefine(a) }},
		{prefix: "remove refine ", handler: func(a string) error { return s.cmdRemoveRefine(a) }},

		// --- stage filters ---
		{prefix: "where ", handler: func(a string) error { return s.cmdWhere(a) }, completer: completeFieldArgs},
		{prefix: "edit where ", handler: func(a string) error { return s.cmdEditWhere(a) }},
		{prefix: "remove where ", handler: func(a string) error { return s.cmdRemoveWhere(a) }},

		// --- limit / ordering ---
		{prefix: "limit ", handler: func(a string) error { return s.cmdLimit(a) }},
		{prefix: "remove limit", handler: func(_ string) error { return s.cmdRemoveLimit() }},
		{prefix: "top ", handler: func(a string) error { return s.cmdTop(a) }},
		{prefix: "order ", handler: func(a string) error { return s.cmdOrder(a) }, completer: completeOrderArgs},
		{prefix: "edit order ", handler: func(a string) error { return s.cmdEditOrder(a) }, completer: completeOrderArgs},
		{prefix: "remove order ", handler: func(a string) error { return s.cmdRemoveOrder(a) }},

		// --- stages ---
		{prefix: "stage field ", handler: func(a string) error { return s.cmdStageField(a) }},
		{prefix: "stage", handler: func(_ string) error { return s.cmdStage() }},
		{prefix: "remove stage", handler: func(_ string) error { return s.cmdRemoveStage() }},
		{prefix: "focus ", handler: func(a string) error { return s.cmdFocus(a) }},
		{prefix: "focus", handler: func(_ string) error { return s.cmdFocus("") }},

		// --- query level ---
		{prefix: "load ", handler: func(a string) error { return s.cmdLoad(a) }, completer: completeFieldArgs},
		{prefix: "replace ", handler: func(a string) error { return s.cmdReplace(a) }, completer: completeFieldArgs},
		{prefix: "name ", handler: func(a string) error { return s.cmdName(a) }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},

		// --- rendering ---
		{prefix: "show", handler: func(_ string) error { return s.cmdShow() }},
		{prefix: "transformed", handler: func(_ string) error { return s.cmdTransformed() }},
		{prefix: "summary", handler: func(_ string) error { return s.cmdSummary() }},
		{prefix: "mode ", handler: func(a string) error { return s.cmdMode(a) }, completer: completeModeArgs},
		{prefix: "model ", handler: func(a string) error { return s.cmdModel(a) }},
		{prefix: "model", handler: func(_ string) error { return s.cmdModel("") }},
		{prefix: "style ", handler: func(a string) error { return s.cmdStyle(a) }, completer: completeStyleArgs},
		{prefix: "remove style ", handler: func(a string) error { return s.cmdRemoveStyle(a) }, completer: completeFieldArgs},

		// --- plugins ---
		{prefix: "plugin rowlimit ", handler: func(a string) error { return s.cmdPluginRowLimit(a) }},
		{prefix: "plugins", handler: func(_ string) error { return s.cmdPlugins() }},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "peek ", handler: func(a string) error { return s.cmdPeek(a) }, completer: completeTableArgs},
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
		{prefix: "set_engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs, hidden: true},

		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.Slice(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeFieldArgs handles completion for field-path commands
// (add, toggle, where, load, replace, style).
func completeFieldArgs(args string) (completionContext, string) {
	return contextFieldPath, lastToken(args)
}

// completeTableArgs handles completion for table-name commands (source, peek).
func completeTableArgs(args string) (completionContext, string) {
	return contextTableName, strings.TrimSpace(args)
}

// completeOrderArgs handles completion for order commands: a direction
// after the index argument, nothing before it.
func completeOrderArgs(args string) (completionContext, string) {
	if strings.Contains(strings.TrimSpace(args), " ") || strings.HasSuffix(args, " ") {
		return contextDirection, lastToken(args)
	}
	return contextCommand, ""
}

// completeEngineArgs handles completion for engine/set_engine commands.
func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completeModeArgs handles completion for the mode command.
func completeModeArgs(args string) (completionContext, string) {
	return contextMode, strings.TrimSpace(args)
}

// completeStyleArgs handles completion for the style command: field name
// first, then a renderer name.
func completeStyleArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") && !strings.HasSuffix(args, " ") {
		return contextFieldPath, arg
	}
	return contextRenderer, lastToken(args)
}
