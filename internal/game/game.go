// Package game implements the Snakes and Foxes turn controller: dice rolls,
// player hops, fox and snake pursuit, captures, and the end-of-game checks.
//
// A Game is driven by fixed ticks. Player hops and pursuit steps are paced
// with tick countdowns held in the current Phase, and every state change
// goes through Tick, Roll or Select.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
	"github.com/vovakirdan/snakes-foxes/internal/pursuit"
	"github.com/vovakirdan/snakes-foxes/internal/token"
)

// NoWinner is the GameOver.Winner value of a game nobody won.
const NoWinner = -1

const maxMessages = 6

// Options configures a new game.
type Options struct {
	Variant string
	Title   string
	Config  config.GameConfig
	Logger  *log.Logger // nil discards
	Seed    int64       // 0 seeds from the clock
}

// Game is one two-player game.
type Game struct {
	id    string
	title string
	cfg   config.GameConfig

	board  *board.Board
	layout board.Layout
	engine *pursuit.Engine
	roller *dice.Roller

	pieces  *occupancy.Pieces
	tokens  [2]*token.Token
	current int
	phase   Phase

	roll   dice.Outcome
	rolled bool

	notice      string
	noticeTicks int
	messages    []string

	tick   uint64
	paused bool

	runtime core.RuntimeConfig // as passed to the last Reset; restart reuses it

	logger *log.Logger
}

// New builds a game from opts and resets it.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := board.New(cfg.Board.Rings, cfg.Board.NodesPerRing)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := opts.Variant
	if id == "" {
		id = "classic"
	}
	title := opts.Title
	if title == "" {
		title = "Snakes and Foxes"
	}

	layout := board.NewLayout(b, cfg.Layout)
	g := &Game{
		id:     id,
		title:  title,
		cfg:    cfg,
		board:  b,
		layout: layout,
		engine: pursuit.New(b, layout),
		logger: logger,
	}
	for seat := range g.tokens {
		g.tokens[seat] = token.New(seat, b, cfg.Rules.PiecesPerPlayer)
	}

	g.Reset(core.RuntimeConfig{Seed: opts.Seed})
	return g, nil
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Reset starts a new game: tokens back to the center, foxes and snakes back
// to their outer-ring posts, player 1 to roll.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.roller = dice.NewRoller(g.cfg.Dice.Count, g.cfg.Weights(), rand.New(rand.NewSource(seed)))

	g.pieces = occupancy.NewPieces(g.board)
	for seat, tok := range g.tokens {
		tok.Reset()
		g.pieces.Move(playerRef(seat), tok.Node)
	}

	g.current = 0
	g.phase = AwaitingRoll{}
	g.roll = dice.Outcome{}
	g.rolled = false
	g.notice = ""
	g.noticeTicks = 0
	g.messages = nil
	g.tick = 0
	g.paused = false

	g.logger.Debug("new game", "variant", g.id, "rings", g.board.Rings(), "nodes", g.board.NodesPerRing(), "mode", g.cfg.Dice.Mode, "seed", seed)
	g.say("%s to roll", core.PlayerForSeat(g.current))
}

// Board returns the board topology.
func (g *Game) Board() *board.Board {
	return g.board
}

// Layout returns the geometry used for distance ranking.
func (g *Game) Layout() board.Layout {
	return g.layout
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Current returns the seat whose turn it is.
func (g *Game) Current() int {
	return g.current
}

// Token returns a copy of a seat's token.
func (g *Game) Token(seat int) token.Token {
	return *g.tokens[seat]
}

// Foxes returns the fox positions.
func (g *Game) Foxes() []board.Node {
	return append([]board.Node(nil), g.pieces.Foxes...)
}

// Snakes returns the snake positions.
func (g *Game) Snakes() []board.Node {
	return append([]board.Node(nil), g.pieces.Snakes...)
}

// LastRoll returns the most recent roll, if any this game.
func (g *Game) LastRoll() (dice.Outcome, bool) {
	return g.roll, g.rolled
}

// TotalTurns returns the combined arrivals of both tokens.
func (g *Game) TotalTurns() int {
	return g.tokens[0].Turns + g.tokens[1].Turns
}

func (g *Game) resolver() occupancy.Resolver {
	return occupancy.NewResolver(g.board, g.pieces)
}

// Roll throws the dice for the current player. It does nothing outside
// AwaitingRoll.
func (g *Game) Roll() (dice.Outcome, bool) {
	if _, ok := g.phase.(AwaitingRoll); !ok {
		return dice.Outcome{}, false
	}
	o := g.roller.Roll()
	return o, g.ApplyRoll(o)
}

// ApplyRoll uses o as the current player's roll. Pips become hops; with no
// pips the turn goes straight to pursuit.
func (g *Game) ApplyRoll(o dice.Outcome) bool {
	if _, ok := g.phase.(AwaitingRoll); !ok {
		return false
	}

	g.roll = o
	g.rolled = true
	g.say("%s rolled %s", core.PlayerForSeat(g.current), o)

	if o.Moves == 0 {
		g.setNotice("No pips: no moves this turn")
		g.endPlayerMoves()
		return true
	}

	g.phase = PlayerMoving{MovesRemaining: o.Moves}
	if len(g.LegalMoves()) == 0 {
		g.say("%s is boxed in", core.PlayerForSeat(g.current))
		g.endPlayerMoves()
	}
	return true
}

// LegalMoves returns the nodes the current player may select now: the one-hop
// connections of its token. It is empty outside PlayerMoving and while a hop
// is in flight.
func (g *Game) LegalMoves() []board.Node {
	p, ok := g.phase.(PlayerMoving)
	if !ok || p.Transit > 0 || p.MovesRemaining <= 0 {
		return nil
	}
	tok := g.tokens[g.current]
	if !tok.Active {
		return nil
	}
	return g.resolver().ConnectedNodes(tok.Node, true, tok.Previous)
}

// Select moves the current player's token to n. Anything that is not a
// legal move right now is ignored and reported as false.
func (g *Game) Select(n board.Node) bool {
	p, ok := g.phase.(PlayerMoving)
	if !ok || p.Transit > 0 || p.MovesRemaining <= 0 {
		return false
	}
	if !containsNode(g.LegalMoves(), n) {
		return false
	}

	tok := g.tokens[g.current]
	tok.MoveTo(n)
	g.pieces.Move(playerRef(g.current), n)
	p.MovesRemaining--

	if g.cfg.Pacing.MoveTicks <= 0 {
		g.phase = p
		g.arrive()
		return true
	}
	p.Transit = g.cfg.Pacing.MoveTicks
	g.phase = p
	return true
}

// arrive completes the hop in flight and runs the end-of-move checks.
func (g *Game) arrive() {
	p, ok := g.phase.(PlayerMoving)
	if !ok {
		return
	}

	tok := g.tokens[g.current]
	landed := tok.Node
	tok.Arrive(g.board, g.cfg.Board.WarpOnArrival)
	if tok.Node != landed {
		g.say("%s hit a snake space and slid to %s", core.PlayerForSeat(g.current), tok.Node)
	}
	g.pieces.Move(playerRef(g.current), tok.Node)

	if tok.Active && tok.CanWin() {
		g.finish(g.current, EndWin)
		return
	}
	if g.TotalTurns() >= g.cfg.Rules.MaxTurns {
		g.finish(NoWinner, EndTurnLimit)
		return
	}

	if p.MovesRemaining == 0 {
		g.endPlayerMoves()
		return
	}
	if len(g.LegalMoves()) == 0 {
		g.say("%s is boxed in", core.PlayerForSeat(g.current))
		g.endPlayerMoves()
	}
}

// endPlayerMoves hands the turn to the foxes, then the snakes, then the
// other player, skipping any that were not rolled.
func (g *Game) endPlayerMoves() {
	if g.startPursuit(occupancy.KindFox) {
		return
	}
	if g.startPursuit(occupancy.KindSnake) {
		return
	}
	g.switchTurn()
}

func (g *Game) startPursuit(kind occupancy.Kind) bool {
	count := g.roll.Foxes
	if kind == occupancy.KindSnake {
		count = g.roll.Snakes
	}
	if count <= 0 {
		return false
	}

	target := g.tokens[g.current].Node
	queue := g.engine.Nearest(g.pieces.Enemies(kind), target, count)
	if len(queue) == 0 {
		return false
	}

	g.phase = Pursuit{
		Kind:      kind,
		Queue:     queue,
		Countdown: g.cfg.Pacing.PursuitDelayTicks,
	}
	g.logger.Debug("pursuit", "kind", kind, "pieces", len(queue), "target", target)
	return true
}

// AdvancePursuit performs one pursuit step right away: the next queued piece
// hops, or, once the queue is spent, play moves on to the snakes or the
// other player. It reports false outside a pursuit phase.
func (g *Game) AdvancePursuit() bool {
	p, ok := g.phase.(Pursuit)
	if !ok {
		return false
	}

	if p.Index >= len(p.Queue) {
		if p.Kind == occupancy.KindFox && g.startPursuit(occupancy.KindSnake) {
			return true
		}
		g.switchTurn()
		return true
	}

	ref := occupancy.PieceRef{Kind: p.Kind, Index: p.Queue[p.Index]}
	target := g.tokens[g.current].Node
	dest := g.engine.Advance(g.pieces, ref, target)

	p.Index++
	p.Countdown = g.cfg.Pacing.PursuitDelayTicks
	g.phase = p

	g.captureAt(p.Kind, dest)
	g.checkEliminated()
	return true
}

// captureAt applies the capture rules for a pursuer landing on dest. The
// center takes every active token on it; elsewhere only the current
// player's token can be hit.
func (g *Game) captureAt(kind occupancy.Kind, dest board.Node) {
	if dest.IsCenter() {
		for seat, tok := range g.tokens {
			if tok.Active && tok.Node.IsCenter() {
				g.capture(seat, kind)
			}
		}
		return
	}

	tok := g.tokens[g.current]
	if tok.Active && tok.Node == dest {
		g.capture(g.current, kind)
	}
}

func (g *Game) capture(seat int, kind occupancy.Kind) {
	tok := g.tokens[seat]
	tok.LosePiece()
	g.pieces.RemovePlayer(seat)
	g.say("A %s caught %s on %s", kind, core.PlayerForSeat(seat), tok.Node)
	g.logger.Debug("capture", "by", kind, "seat", seat, "node", tok.Node, "pieces", tok.Pieces)
}

// switchTurn passes play to the other player if it is still in the game,
// otherwise keeps the current one. With nobody left the game ends.
func (g *Game) switchTurn() {
	other := 1 - g.current
	switch {
	case g.tokens[other].Active:
		g.current = other
	case g.tokens[g.current].Active:
	default:
		g.finish(NoWinner, EndEliminated)
		return
	}
	g.phase = AwaitingRoll{}
	g.say("%s to roll", core.PlayerForSeat(g.current))
}

func (g *Game) checkEliminated() {
	if g.IsGameOver() {
		return
	}
	if !g.tokens[0].Active && !g.tokens[1].Active {
		g.finish(NoWinner, EndEliminated)
	}
}

func (g *Game) finish(winner int, reason EndReason) {
	g.phase = GameOver{Winner: winner, Reason: reason}
	if winner == NoWinner {
		g.say("Game over: %s", reason)
	} else {
		g.say("%s wins: %s", core.PlayerForSeat(winner), reason)
	}
	g.logger.Info("game over", "variant", g.id, "winner", core.PlayerForSeat(winner), "reason", reason, "turns", g.TotalTurns())
}

// EndReason names how the game ended, "" while it is running.
func (g *Game) EndReason() string {
	if over, ok := g.phase.(GameOver); ok {
		return over.Reason.String()
	}
	return ""
}

// Table reports the dice preset and board size for stored results.
func (g *Game) Table() multiplayer.TableInfo {
	return multiplayer.TableInfo{
		Mode:         string(g.cfg.Dice.Mode),
		Rings:        g.board.Rings(),
		NodesPerRing: g.board.NodesPerRing(),
	}
}

// Forfeit ends the game in favor of the other seat.
func (g *Game) Forfeit(seat int) {
	if g.IsGameOver() || seat < 0 || seat > 1 {
		return
	}
	g.finish(1-seat, EndForfeit)
}

// Tick advances the game clock by one tick: a hop in flight lands when its
// transit runs out and a pursuit step fires when its countdown does.
func (g *Game) Tick() {
	if g.IsGameOver() {
		return
	}
	g.tick++

	if g.noticeTicks > 0 {
		g.noticeTicks--
		if g.noticeTicks == 0 {
			g.notice = ""
		}
	}

	switch p := g.phase.(type) {
	case PlayerMoving:
		if p.Transit > 0 {
			p.Transit--
			g.phase = p
			if p.Transit == 0 {
				g.arrive()
			}
		}
	case Pursuit:
		p.Countdown--
		g.phase = p
		if p.Countdown <= 0 {
			g.AdvancePursuit()
		}
	}

	g.checkEliminated()
}

// Advance runs n ticks.
func (g *Game) Advance(n int) {
	for i := 0; i < n && !g.IsGameOver(); i++ {
		g.Tick()
	}
}

// Step advances the simulation by one tick with hot-seat input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && g.IsGameOver() {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.IsGameOver() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.apply(in)
	g.Tick()
	return core.StepResult{State: g.State()}
}

// StepMulti advances the simulation by one tick. Only the input of the
// player whose turn it is has any effect.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.apply(in.Player(core.PlayerForSeat(g.current)))
	g.Tick()
	return core.StepResult{State: g.State()}
}

func (g *Game) apply(in core.InputFrame) {
	if g.IsGameOver() {
		return
	}
	if in.Has(core.ActionRoll) {
		g.Roll()
	}
	if n, ok := in.Target(); ok {
		g.Select(n)
	}
}

// State returns the platform summary of the game.
func (g *Game) State() core.GameState {
	return core.GameState{
		Turns:    g.TotalTurns(),
		GameOver: g.IsGameOver(),
		Paused:   g.paused,
		Winner:   g.Winner(),
	}
}

// IsGameOver reports whether the game has ended.
func (g *Game) IsGameOver() bool {
	_, over := g.phase.(GameOver)
	return over
}

// Winner returns the winning player, or NoPlayer.
func (g *Game) Winner() core.PlayerID {
	if over, ok := g.phase.(GameOver); ok {
		return core.PlayerForSeat(over.Winner)
	}
	return core.NoPlayer
}

// ToMove returns the player whose input counts now, NoPlayer once the game
// is over.
func (g *Game) ToMove() core.PlayerID {
	if g.IsGameOver() {
		return core.NoPlayer
	}
	return core.PlayerForSeat(g.current)
}

// Pieces1 returns the pieces player 1 has left.
func (g *Game) Pieces1() int {
	return g.tokens[0].Pieces
}

// Pieces2 returns the pieces player 2 has left.
func (g *Game) Pieces2() int {
	return g.tokens[1].Pieces
}

// Snapshot returns the current game state for network transmission.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.View()
}

func (g *Game) setNotice(text string) {
	g.notice = text
	g.noticeTicks = g.cfg.Pacing.RollMessageTicks
	if g.noticeTicks <= 0 {
		g.noticeTicks = 1
	}
}

func (g *Game) say(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	g.messages = append(g.messages, msg)
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
	g.logger.Debug(msg)
}

func playerRef(seat int) occupancy.PieceRef {
	return occupancy.PieceRef{Kind: occupancy.KindPlayer, Index: seat}
}

func containsNode(nodes []board.Node, n board.Node) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}
