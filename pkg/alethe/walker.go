package alethe

import (
	"fmt"
)

// RuleArgs bundles everything a rule function needs to validate one step
// (§4.E). Rules are pure: given the same arguments they always return the
// same verdict, and they never mutate Pool, Context, or the premise
// clauses they are handed.
type RuleArgs struct {
	Pool      *Pool
	Context   *Context
	Conclusion *Clause
	Premises  []*Clause
	Args      []*Term
	// Subproof holds the just-closed subproof's command list when the step
	// is the last command of a subproof, whatever its rule; nil for every
	// other step.
	Subproof []*ProofCommand
}

// Rule validates one step's conclusion against its premises and arguments,
// returning nil on success or a typed error from the §7 taxonomy.
type Rule func(RuleArgs) error

// RuleTable maps a rule name to its validator. pkg/alethe/rules builds the
// concrete table (it imports this package, so this package cannot import
// it back); callers hand the table to NewChecker.
type RuleTable map[string]Rule

// Config controls the walker's behavior (§6), mirroring the Rust
// checker's Config struct in `checker/mod.rs`.
type Config struct {
	// SkipUnknownRules, when true, treats a step naming a rule absent from
	// the RuleTable as vacuously accepted instead of failing the proof.
	SkipUnknownRules bool
	// MaxSubproofDepth bounds how many nested anchors may be open at once;
	// zero means unbounded. It exists to let a caller cap pathological
	// inputs without the walker itself recursing (the walk is iterative
	// regardless, so the only real limit is memory for the explicit stack).
	MaxSubproofDepth int
	// IsRunningTest, when true, suppresses checkAssume's requirement that
	// an assumed term match one of the problem's premises (§6), the same
	// escape hatch the Rust checker's config exposes for running its own
	// fixture proofs whose assumptions are intentionally free-standing.
	IsRunningTest bool
	// Reconstruct, when true, makes Check additionally build an explicit
	// copy of the proof in which every trans link that held only modulo
	// reordering of equalities is bridged by cong/refl/trans steps
	// (§4.G); retrieve it with ReconstructedProof.
	Reconstruct bool
	// File names the proof being checked in statistics records; it has no
	// other meaning to the checker.
	File string
	// Stats, if non-nil, receives one (file, step-id, rule-name, duration)
	// record per checked step (§6).
	Stats *StatsSink
}

// Checker walks a Proof iteratively, validating each command against its
// rule. It keeps an explicit stack of (command slice, cursor) frames
// instead of recursing into subproofs, so proofs nested thousands of
// anchors deep never grow the native call stack (§4.F).
type Checker struct {
	pool    *Pool
	rules   RuleTable
	cfg     Config
	ctx     *Context
	byID    map[string]*Clause

	recon         *Reconstructor
	reconstructed []*ProofCommand
}

// NewChecker returns a Checker over pool using rules to validate steps.
func NewChecker(pool *Pool, rules RuleTable, cfg Config) *Checker {
	c := &Checker{
		pool:  pool,
		rules: rules,
		cfg:   cfg,
		ctx:   NewContext(pool),
		byID:  make(map[string]*Clause),
	}
	if cfg.Reconstruct {
		c.recon = NewReconstructor(pool)
	}
	return c
}

type walkFrame struct {
	cmds   []*ProofCommand
	i      int
	anchor *ProofCommand // the anchor command that opened this frame, nil at top level
	out    []*ProofCommand // rebuilt commands, populated only when reconstructing
}

// Check validates every command in proof, returning the first error
// encountered (wrapped with the offending command's id via fmt.Errorf's
// %w, preserving the underlying *errors.Kind for errors.Is) or nil if the
// whole proof checks out. With Config.Reconstruct set, a successful check
// also leaves the rewritten command list behind for ReconstructedProof;
// on failure the reconstructed prefix up to the failing command is kept
// for debugging (§7).
func (c *Checker) Check(proof *Proof) error {
	root := &walkFrame{cmds: proof.Commands}
	stack := []*walkFrame{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.i >= len(top.cmds) {
			stack = stack[:len(stack)-1]
			if top.anchor != nil {
				c.ctx.Pop()
				if c.recon != nil {
					closed := *top.anchor
					closed.Subproof = top.out
					parent := stack[len(stack)-1]
					parent.out = append(parent.out, &closed)
				}
			}
			continue
		}
		cmd := top.cmds[top.i]
		top.i++
		lastInSubproof := top.anchor != nil && top.i >= len(top.cmds)

		switch cmd.Kind {
		case CommandAssume:
			if err := c.checkAssume(proof, cmd); err != nil {
				c.finishReconstruction(root)
				return fmt.Errorf("command %s: %w", cmd.ID, err)
			}
			c.byID[cmd.ID] = cmd.Clause
			if c.recon != nil {
				top.out = append(top.out, cmd)
			}
		case CommandStep:
			var enclosing []*ProofCommand
			if lastInSubproof {
				enclosing = top.cmds
			}
			premises, err := c.resolvePremises(cmd)
			if err == nil {
				err = c.checkStep(cmd, premises, enclosing)
			}
			if err != nil {
				c.finishReconstruction(root)
				return fmt.Errorf("command %s: %w", cmd.ID, err)
			}
			c.byID[cmd.ID] = cmd.Clause
			if c.recon != nil {
				top.out = append(top.out, c.rewriteStep(cmd, premises)...)
			}
		case CommandAnchor:
			assigns := make([]AnchorArg, 0, len(cmd.AnchorBinds))
			boundVars := make([]*Term, 0, len(cmd.AnchorBinds))
			for _, b := range cmd.AnchorBinds {
				bv := c.pool.Var(b.Name, b.Sort)
				boundVars = append(boundVars, bv)
				if b.Value != nil {
					assigns = append(assigns, AnchorArg{Var: bv, Value: b.Value})
				}
			}
			if _, err := c.ctx.Push(assigns, NewVarSet(boundVars...)); err != nil {
				c.finishReconstruction(root)
				return fmt.Errorf("command %s: %w", cmd.ID, err)
			}
			if c.cfg.MaxSubproofDepth > 0 && c.ctx.Depth() > c.cfg.MaxSubproofDepth {
				c.finishReconstruction(root)
				return fmt.Errorf("command %s: %w", cmd.ID, ErrMaxSubproofDepthExceeded.New(c.cfg.MaxSubproofDepth))
			}
			stack = append(stack, &walkFrame{cmds: cmd.Subproof, anchor: cmd})
		}
	}
	c.finishReconstruction(root)
	return nil
}

func (c *Checker) finishReconstruction(root *walkFrame) {
	if c.recon != nil {
		c.reconstructed = root.out
	}
}

// ReconstructedProof returns the rewritten command list the last Check
// built when Config.Reconstruct was set: equivalent to the checked proof,
// but with every silent deep-equality use in trans chains made explicit
// through bridge steps (§4.G, §6). Returns nil when reconstruction was not
// enabled.
func (c *Checker) ReconstructedProof() []*ProofCommand { return c.reconstructed }

// ReconstructionWarnings returns the reconstructor's accumulated non-fatal
// warnings (nil when reconstruction was not enabled or none were raised).
func (c *Checker) ReconstructionWarnings() error {
	if c.recon == nil {
		return nil
	}
	return c.recon.Errors().ErrorOrNil()
}

func (c *Checker) checkAssume(proof *Proof, cmd *ProofCommand) error {
	// inside a subproof an assume is accepted unconditionally; the
	// subproof-closing step accounts for discharged assumptions (§4.F)
	if c.ctx.Depth() > 0 || c.cfg.IsRunningTest {
		cmd.Clause = NewClause(cmd.Term)
		return nil
	}
	for _, p := range proof.Premises {
		if DeepEqual(p, cmd.Term, ModeReorderEq) {
			cmd.Clause = NewClause(cmd.Term)
			return nil
		}
	}
	return ErrUnmatchedAssume.New(cmd.Term.String())
}

func (c *Checker) resolvePremises(cmd *ProofCommand) ([]*Clause, error) {
	premises := make([]*Clause, len(cmd.Premises))
	for i, ref := range cmd.Premises {
		cl, ok := c.byID[ref.ID]
		if !ok {
			return nil, ErrPremiseNotFound.New(ref.ID)
		}
		premises[i] = cl
	}
	return premises, nil
}

// checkStep validates cmd. enclosing is the command list of the subproof
// cmd closes (non-nil only when cmd is the last command of its subproof
// frame), passed through to the rule via RuleArgs.Subproof; every other
// step gets nil.
func (c *Checker) checkStep(cmd *ProofCommand, premises []*Clause, enclosing []*ProofCommand) error {
	rule, ok := c.rules[cmd.Rule]
	if !ok {
		if c.cfg.SkipUnknownRules {
			return nil
		}
		return ErrUnknownRule.New(cmd.Rule)
	}
	if c.cfg.Stats != nil {
		c.cfg.Stats.Begin(cmd.ID)
	}
	args := RuleArgs{
		Pool:       c.pool,
		Context:    c.ctx,
		Conclusion: cmd.Clause,
		Premises:   premises,
		Args:       cmd.Args,
		Subproof:   enclosing,
	}
	if err := rule(args); err != nil {
		return err
	}
	if c.cfg.Stats != nil {
		c.cfg.Stats.Record(c.cfg.File, cmd.ID, cmd.Rule)
	}
	return nil
}

// rewriteStep returns the reconstructed command sequence replacing cmd:
// the command itself for most rules, or, for a trans step whose chain
// relied on equality modulo reordering, the necessary bridge steps
// followed by a trans step whose premise list threads through them.
func (c *Checker) rewriteStep(cmd *ProofCommand, premises []*Clause) []*ProofCommand {
	if cmd.Rule != "trans" {
		return []*ProofCommand{cmd}
	}
	out, ok := c.rewriteTrans(cmd, premises)
	if !ok {
		return []*ProofCommand{cmd}
	}
	return out
}

// rewriteTrans mirrors the trans rule's chain walk. Whenever the link
// between the running endpoint and the next premise's endpoint holds only
// modulo reordering of equalities, it asks the Reconstructor for a step
// proving the two endpoints equal and splices that step's id into the
// premise list, so the rewritten chain holds syntactically.
func (c *Checker) rewriteTrans(cmd *ProofCommand, premises []*Clause) ([]*ProofCommand, bool) {
	if len(cmd.Clause.Literals) != 1 {
		return nil, false
	}
	want1, wantN, ok := cmd.Clause.Literals[0].AsEquality()
	if !ok {
		return nil, false
	}
	type edge struct {
		l, r *Term
		id   string
	}
	edges := make([]edge, 0, len(premises))
	for i, p := range premises {
		if len(p.Literals) != 1 {
			return nil, false
		}
		l, r, ok := p.Literals[0].AsEquality()
		if !ok {
			return nil, false
		}
		edges = append(edges, edge{l, r, cmd.Premises[i].ID})
	}

	var bridged []*ProofCommand
	var newPremises []PremiseRef
	before := len(c.recon.Steps())
	bridge := func(a, b *Term) bool {
		if a == b {
			return true
		}
		id, err := c.recon.Reconstruct(a, b)
		if err != nil {
			return false
		}
		if id != "" {
			newPremises = append(newPremises, PremiseRef{ID: id})
		}
		return true
	}

	cur := want1
	used := make([]bool, len(edges))
	for step := 0; step < len(edges); step++ {
		found := false
		for i, e := range edges {
			if used[i] {
				continue
			}
			if e.l == cur || DeepEqual(e.l, cur, ModeReorderEq) {
				if !bridge(cur, e.l) {
					return nil, false
				}
				newPremises = append(newPremises, PremiseRef{ID: e.id})
				cur = e.r
				used[i] = true
				found = true
				break
			}
			if e.r == cur || DeepEqual(e.r, cur, ModeReorderEq) {
				if !bridge(cur, e.r) {
					return nil, false
				}
				newPremises = append(newPremises, PremiseRef{ID: e.id})
				cur = e.l
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	if cur != wantN && !bridge(cur, wantN) {
		return nil, false
	}

	bridged = append(bridged, c.recon.Steps()[before:]...)
	rewritten := *cmd
	rewritten.Premises = newPremises
	return append(bridged, &rewritten), true
}
