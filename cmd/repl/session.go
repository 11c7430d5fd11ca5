package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins/rowlimit"
	"github.com/bawdo/quarry/schema"
	"github.com/bawdo/quarry/styles"
	"github.com/bawdo/quarry/visitors"
)

var errNoSource = errors.New("no source defined (use 'source <name>' first)")

// Session holds the REPL state: the active source schema, the query
// editor, the focused stage path, and the rendering configuration.
type Session struct {
	engine    string
	schema    *schema.Schema
	manager   *managers.QueryManager
	focus     nodes.StagePath // nil addresses the first root stage
	styleMap  styles.Mapping
	mode      visitors.Mode
	modelPath string         // notebook header provenance, from QUARRY_MODEL or 'model'
	commands  []commandEntry // command registry (sorted by prefix length desc)
	conn      *dbConn        // nil when disconnected
	lastDSN   string         // remembers the previous DSN for reconnect
	rl        *readline.Instance
	out       io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session for the given engine.
func NewSession(engine string, rl *readline.Instance) *Session {
	s := &Session{
		engine:   engine,
		styleMap: make(styles.Mapping),
		rl:       rl,
		out:      os.Stdout,
	}
	s.initCommands()
	return s
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else {
			if lower == cmd.prefix {
				return cmd.handler("")
			}
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

func (s *Session) requireSource() error {
	if s.manager == nil {
		return errNoSource
	}
	return nil
}

// --- Source and schema commands ---

func (s *Session) cmdSource(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: source <name>")
	}

	var src *schema.Schema
	if s.conn != nil {
		dbSchema, err := s.conn.sourceSchema(name)
		if err == nil {
			src = dbSchema
			_, _ = fmt.Fprintf(s.out, "  Source %q loaded from database (%d fields)\n", name, len(src.Fields))
		}
	}
	if src == nil {
		src = &schema.Schema{Name: name}
		_, _ = fmt.Fprintf(s.out, "  Source %q created — declare fields with 'dim' and 'measure'\n", name)
	}

	s.schema = src
	s.manager = managers.NewQueryManager(src)
	s.focus = nil
	return nil
}

func (s *Session) cmdDim(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return errors.New("usage: dim <name> [type]")
	}
	typ := "string"
	if len(parts) == 2 {
		typ = parts[1]
	}
	s.schema.Fields = append(s.schema.Fields, schema.Dim(parts[0], typ))
	_, _ = fmt.Fprintf(s.out, "  Dimension %q (%s) declared\n", parts[0], typ)
	return nil
}

func (s *Session) cmdMeasure(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name, expr, ok := splitIsClause(args)
	if !ok {
		name = strings.TrimSpace(args)
	}
	if name == "" || strings.Contains(name, " ") {
		return errors.New("usage: measure <name> [is <expr>]")
	}
	f := schema.Calc(name, "number")
	if ok {
		f.Source = fmt.Sprintf("measure: %s is %s", name, expr)
	}
	s.schema.Fields = append(s.schema.Fields, f)
	_, _ = fmt.Fprintf(s.out, "  Measure %q declared\n", name)
	return nil
}

func (s *Session) cmdFields() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if len(s.schema.Fields) == 0 {
		_, _ = fmt.Fprintln(s.out, "  (no fields)")
		return nil
	}
	for _, f := range s.schema.Fields {
		if f.Type != "" {
			_, _ = fmt.Fprintf(s.out, "  %-10s %s (%s)\n", f.Kind, f.Name, f.Type)
		} else {
			_, _ = fmt.Fprintf(s.out, "  %-10s %s\n", f.Kind, f.Name)
		}
	}
	return nil
}

// --- Field commands ---

func (s *Session) cmdAdd(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	path := strings.TrimSpace(args)
	if path == "" {
		return errors.New("usage: add <field path>")
	}
	if err := s.manager.AddField(s.focus, path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Added %q\n", path)
	return nil
}

func (s *Session) cmdToggle(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	path := strings.TrimSpace(args)
	if path == "" {
		return errors.New("usage: toggle <field path>")
	}
	if err := s.manager.ToggleField(s.focus, path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Toggled %q\n", path)
	return nil
}

func (s *Session) cmdRemoveField(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, err := parseIndex(args, "remove field <index>")
	if err != nil {
		return err
	}
	if err := s.manager.RemoveField(s.focus, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Removed field %d\n", i)
	return nil
}

func (s *Session) cmdRename(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: rename <index> <new name>")
	}
	i, err := parseIndex(parts[0], "rename <index> <new name>")
	if err != nil {
		return err
	}
	if err := s.manager.RenameField(s.focus, i, parts[1]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Renamed field %d to %q\n", i, parts[1])
	return nil
}

func (s *Session) cmdReorder(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	order, err := parseIndexList(args)
	if err != nil {
		return fmt.Errorf("reorder: %w", err)
	}
	if err := s.manager.ReorderFields(s.focus, order); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Reordered %d fields\n", len(order))
	return nil
}

func (s *Session) cmdNest(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: nest <name>")
	}
	nq := &nodes.NestedQuery{Name: name, Stages: []*nodes.Stage{nodes.NewStage()}}
	if err := s.manager.InsertField(s.focus, nq); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Nested query %q added\n", name)
	return nil
}

func (s *Session) cmdExpr(args string, aggregate bool) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name, expr, ok := splitIsClause(args)
	if !ok {
		if aggregate {
			return errors.New("usage: agg <name> is <expr>")
		}
		return errors.New("usage: expr <name> is <expr>")
	}
	ref := &nodes.ExpressionField{Name: name, Source: expr, Aggregate: aggregate}
	if err := s.manager.InsertField(s.focus, ref); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Expression %q added\n", name)
	return nil
}

// --- Filter commands ---

func (s *Session) cmdWhere(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	src := strings.TrimSpace(args)
	if src == "" {
		return errors.New("usage: where <predicate>")
	}
	if err := s.manager.AddFilter(s.focus, src); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, "  Filter added")
	return nil
}

func (s *Session) cmdEditWhere(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, rest, err := parseIndexAndRest(args, "edit where <index> <predicate>")
	if err != nil {
		return err
	}
	if err := s.manager.EditFilter(s.focus, i, rest); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Filter %d updated\n", i)
	return nil
}

func (s *Session) cmdRemoveWhere(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, err := parseIndex(args, "remove where <index>")
	if err != nil {
		return err
	}
	if err := s.manager.RemoveFilter(s.focus, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Filter %d removed\n", i)
	return nil
}

func (s *Session) cmdRefine(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, rest, err := parseIndexAndRest(args, "refine <field index> <predicate>")
	if err != nil {
		return err
	}
	if err := s.manager.AddFieldFilter(s.focus, i, rest); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Field %d refined\n", i)
	return nil
}

func (s *Session) cmdEditRefine(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.SplitN(strings.TrimSpace(args), " ", 3)
	if len(parts) != 3 {
		return errors.New("usage: edit refine <field index> <filter index> <predicate>")
	}
	i, err := parseIndex(parts[0], "edit refine <field index> <filter index> <predicate>")
	if err != nil {
		return err
	}
	j, err := parseIndex(parts[1], "edit refine <field index> <filter index> <predicate>")
	if err != nil {
		return err
	}
	if err := s.manager.EditFieldFilter(s.focus, i, j, strings.TrimSpace(parts[2])); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Refinement %d of field %d updated\n", j, i)
	return nil
}

func (s *Session) cmdRemoveRefine(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: remove refine <field index> <filter index>")
	}
	i, err := parseIndex(parts[0], "remove refine <field index> <filter index>")
	if err != nil {
		return err
	}
	j, err := parseIndex(parts[1], "remove refine <field index> <filter index>")
	if err != nil {
		return err
	}
	if err := s.manager.RemoveFieldFilter(s.focus, i, j); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Refinement %d of field %d removed\n", j, i)
	return nil
}

// --- Limit and ordering commands ---

func (s *Session) cmdLimit(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	n, err := parseIndex(args, "limit <n>")
	if err != nil {
		return err
	}
	if err := s.manager.AddLimit(s.focus, n); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Limit set to %d\n", n)
	return nil
}

func (s *Session) cmdTop(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		return errors.New("usage: top <n> <field index> [asc|desc]")
	}
	n, err := parseIndex(parts[0], "top <n> <field index> [asc|desc]")
	if err != nil {
		return err
	}
	i, err := parseIndex(parts[1], "top <n> <field index> [asc|desc]")
	if err != nil {
		return err
	}
	dir := nodes.Desc
	if len(parts) == 3 {
		if dir, err = parseDirection(parts[2]); err != nil {
			return err
		}
	}
	if err := s.manager.AddLimitWithOrder(s.focus, n, i, dir); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Top %d by field %d\n", n, i)
	return nil
}

func (s *Session) cmdRemoveLimit() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if err := s.manager.RemoveLimit(s.focus); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, "  Limit removed")
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) < 1 || len(parts) > 2 {
		return errors.New("usage: order <field index> [asc|desc]")
	}
	i, err := parseIndex(parts[0], "order <field index> [asc|desc]")
	if err != nil {
		return err
	}
	dir := nodes.DirDefault
	if len(parts) == 2 {
		if dir, err = parseDirection(parts[1]); err != nil {
			return err
		}
	}
	if err := s.manager.AddOrderBy(s.focus, i, dir); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Ordered by field %d\n", i)
	return nil
}

func (s *Session) cmdEditOrder(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: edit order <index> <asc|desc>")
	}
	i, err := parseIndex(parts[0], "edit order <index> <asc|desc>")
	if err != nil {
		return err
	}
	dir, err := parseDirection(parts[1])
	if err != nil {
		return err
	}
	if err := s.manager.EditOrderBy(s.focus, i, dir); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Ordering %d updated\n", i)
	return nil
}

func (s *Session) cmdRemoveOrder(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, err := parseIndex(args, "remove order <index>")
	if err != nil {
		return err
	}
	if err := s.manager.RemoveOrderBy(s.focus, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Ordering %d removed\n", i)
	return nil
}

// --- Stage commands ---

func (s *Session) cmdStage() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if err := s.manager.AddStage(s.focus); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, "  Stage appended")
	return nil
}

func (s *Session) cmdStageField(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	i, err := parseIndex(args, "stage field <index>")
	if err != nil {
		return err
	}
	if err := s.manager.AddStageToField(s.focus, i); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Stage appended to field %d\n", i)
	return nil
}

func (s *Session) cmdRemoveStage() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if err := s.manager.RemoveStage(s.focus); err != nil {
		return err
	}
	s.focus = nil
	_, _ = fmt.Fprintln(s.out, "  Stage removed (focus reset to root)")
	return nil
}

func (s *Session) cmdFocus(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	arg := strings.TrimSpace(args)
	if arg == "" {
		if s.focus == nil {
			_, _ = fmt.Fprintln(s.out, "  Focus: root stage 0")
		} else {
			_, _ = fmt.Fprintf(s.out, "  Focus: %s\n", s.focus)
		}
		return nil
	}
	if arg == "root" {
		s.focus = nil
		_, _ = fmt.Fprintln(s.out, "  Focus: root stage 0")
		return nil
	}
	path, err := parseStagePath(arg)
	if err != nil {
		return err
	}
	// Resolve now so a bad path fails here, not on the next edit.
	if _, err := s.manager.AutoExpand(path); err != nil {
		return err
	}
	s.focus = path
	_, _ = fmt.Fprintf(s.out, "  Focus: %s\n", path)
	return nil
}

// --- Query-level commands ---

func (s *Session) cmdLoad(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: load <query path>")
	}
	if err := s.manager.LoadQuery(name); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Merged query %q\n", name)
	return nil
}

func (s *Session) cmdReplace(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: replace <query name>")
	}
	def := s.schema.Field(name)
	if def == nil {
		return fmt.Errorf("%w: %s", schema.ErrFieldNotFound, name)
	}
	if err := s.manager.ReplaceQuery(def); err != nil {
		return err
	}
	s.focus = nil
	_, _ = fmt.Fprintf(s.out, "  Replaced with query %q\n", name)
	return nil
}

func (s *Session) cmdName(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: name <query name>")
	}
	s.manager.SetName(name)
	_, _ = fmt.Fprintf(s.out, "  Query named %q\n", name)
	return nil
}

func (s *Session) cmdReset() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	s.manager = managers.NewQueryManager(s.schema)
	s.focus = nil
	_, _ = fmt.Fprintln(s.out, "  Query reset")
	return nil
}

// --- Rendering commands ---

// renderOptions carries the session's mode and, for notebook framing, the
// header metadata: the query name, its renderer hint, and the model path.
func (s *Session) renderOptions() []visitors.TextOption {
	opts := []visitors.TextOption{visitors.WithMode(s.mode)}
	if s.mode == visitors.ModeNotebook {
		meta := visitors.Metadata{Name: s.manager.Name(), ModelPath: s.modelPath}
		if st, ok := s.styleMap.Lookup(s.manager.Name()); ok {
			meta.Renderer = st.Renderer
		}
		opts = append(opts, visitors.WithMetadata(meta))
	}
	return opts
}

func (s *Session) cmdShow() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	v := visitors.NewTextVisitor(s.schema, s.renderOptions()...)
	_, _ = fmt.Fprintln(s.out, v.Render(s.manager.Query()))
	return nil
}

func (s *Session) cmdTransformed() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	q, err := s.manager.TransformedQuery()
	if err != nil {
		return err
	}
	v := visitors.NewTextVisitor(s.schema, s.renderOptions()...)
	_, _ = fmt.Fprintln(s.out, v.Render(q))
	return nil
}

func (s *Session) cmdSummary() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	sum := visitors.NewSummaryVisitor(s.schema, s.styleMap).Summarize(s.manager.Query())
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, string(data))
	return nil
}

func (s *Session) cmdMode(args string) error {
	switch strings.TrimSpace(strings.ToLower(args)) {
	case "query":
		s.mode = visitors.ModeQuery
	case "source":
		s.mode = visitors.ModeSource
	case "notebook":
		s.mode = visitors.ModeNotebook
	default:
		return errors.New("usage: mode <query|source|notebook>")
	}
	_, _ = fmt.Fprintf(s.out, "  Mode: %s\n", strings.TrimSpace(strings.ToLower(args)))
	return nil
}

func (s *Session) cmdModel(args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		if s.modelPath == "" {
			_, _ = fmt.Fprintln(s.out, "  (no model path set)")
		} else {
			_, _ = fmt.Fprintf(s.out, "  Model: %s\n", s.modelPath)
		}
		return nil
	}
	if path == "none" {
		s.modelPath = ""
		_, _ = fmt.Fprintln(s.out, "  Model path cleared")
		return nil
	}
	s.modelPath = path
	_, _ = fmt.Fprintf(s.out, "  Model: %s\n", path)
	return nil
}

func (s *Session) cmdStyle(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: style <field name> <renderer>")
	}
	s.styleMap[parts[0]] = styles.Style{Renderer: parts[1]}
	_, _ = fmt.Fprintf(s.out, "  Style for %q: %s\n", parts[0], parts[1])
	return nil
}

func (s *Session) cmdRemoveStyle(args string) error {
	name := strings.TrimSpace(args)
	if !s.styleMap.CanRemove(name) {
		return fmt.Errorf("no style set for %q", name)
	}
	delete(s.styleMap, name)
	_, _ = fmt.Fprintf(s.out, "  Style for %q removed\n", name)
	return nil
}

// --- Plugin commands ---

func (s *Session) cmdPluginRowLimit(args string) error {
	if err := s.requireSource(); err != nil {
		return err
	}
	n, err := parseIndex(args, "plugin rowlimit <max>")
	if err != nil {
		return err
	}
	p, err := rowlimit.New(n)
	if err != nil {
		return err
	}
	s.manager.AddTransformer(p)
	_, _ = fmt.Fprintf(s.out, "  Row limit plugin enabled (max %d)\n", n)
	return nil
}

func (s *Session) cmdPlugins() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	ts := s.manager.Transformers()
	if len(ts) == 0 {
		_, _ = fmt.Fprintln(s.out, "  (no plugins enabled)")
		return nil
	}
	for _, t := range ts {
		_, _ = fmt.Fprintf(s.out, "  %T\n", t)
	}
	return nil
}

// --- Database commands ---

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		if s.lastDSN == "" {
			return errors.New("usage: connect <dsn>")
		}
		dsn = s.lastDSN
	}
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
	conn, err := connect(s.engine, dsn)
	if err != nil {
		return err
	}
	s.conn = conn
	s.lastDSN = dsn
	_, _ = fmt.Fprintf(s.out, "  Connected (%s) — %d tables\n", s.engine, len(conn.schemaTables()))
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	err := s.conn.close()
	s.conn = nil
	_, _ = fmt.Fprintln(s.out, "  Disconnected")
	return err
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	tables := s.conn.schemaTables()
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(s.out, "  (no tables)")
		return nil
	}
	for _, t := range tables {
		_, _ = fmt.Fprintf(s.out, "  %s\n", t)
	}
	return nil
}

func (s *Session) cmdPeek(args string) error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	table := strings.TrimSpace(args)
	if table == "" {
		return errors.New("usage: peek <table>")
	}
	out, err := s.conn.peek(table)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, out)
	return nil
}

func (s *Session) cmdEngine(args string) error {
	engine := strings.TrimSpace(strings.ToLower(args))
	if !isValidEngine(engine) {
		return fmt.Errorf("unknown engine %q (postgres, mysql, sqlite)", engine)
	}
	s.engine = engine
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", engine)
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprint(s.out, `  Source:
    source <name>                define or introspect the query source
    dim <name> [type]            declare a dimension on the source
    measure <name> [is <expr>]   declare a measure on the source
    fields                       list the source's fields

  Fields (all edits apply to the focused stage):
    add <path>                   add a field by dotted path
    toggle <path>                add or remove a bare field
    remove field <i>             remove the field at index i
    rename <i> <name>            set a display alias
    reorder <i> <j> ...          permute the field list
    nest <name>                  add an empty nested query
    expr <name> is <e>           add a scalar expression field
    agg <name> is <e>            add an aggregate expression field
    refine <i> <pred>            attach a private filter to field i

  Stage:
    where <pred>                 add a stage filter
    edit where <i> <pred>        replace filter i
    remove where <i>             delete filter i
    limit <n> / remove limit     set or clear the row limit
    top <n> <i> [dir]            limit with a default ordering
    order <i> [asc|desc]         order by the field at index i
    edit order <i> <dir>         change an ordering's direction
    remove order <i>             delete an ordering
    stage                        append a stage to the focused pipeline
    stage field <i>              append a stage to a nested query field
    remove stage                 remove the focused stage
    focus <path>|root            address a stage (e.g. 0:2/0)

  Query:
    load <path>                  merge a schema query into the tree
    replace <name>               replace the tree with a schema query
    name <name>                  name the query
    reset                        start over against the same source
    show / transformed           render the query text
    summary                      print the structural summary (JSON)
    mode <query|source|notebook> select the render framing
    model <path>|none            set the notebook header's model path
    style <field> <renderer>     set a renderer hint
    remove style <field>         clear a renderer hint
    plugin rowlimit <max>        cap limitless final stages
    plugins                      list enabled plugins

  Database:
    connect [dsn] / disconnect   manage the database connection
    tables                       list introspected tables
    peek <table>                 preview a table's rows
    engine <name>                switch the driver

  exit | quit
`)
}
