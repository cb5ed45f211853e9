package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridworld.ai/internal/sim/world"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_RepoConfig(t *testing.T) {
	tu, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := tu.WorldConfig()
	if cfg.CellSize != 40 || cfg.MoveInterval != time.Second || cfg.InteractionRadius != 4.5 || cfg.EmoteDuration != 3*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if len(tu.DefaultWords) != 4 || tu.DefaultWords[0] != "Hello" {
		t.Fatalf("words=%v", tu.DefaultWords)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := writeTuning(t, "player_move_interval_ms: 250\nbot_move_ms: [100, 200]\n")
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := tu.WorldConfig()
	if cfg.MoveInterval != 250*time.Millisecond {
		t.Fatalf("move interval=%v", cfg.MoveInterval)
	}
	if cfg.MoveMin != 100*time.Millisecond || cfg.MoveMax != 200*time.Millisecond {
		t.Fatalf("bot move=%v..%v", cfg.MoveMin, cfg.MoveMax)
	}
	if cfg.FirstMoveMin != time.Second || cfg.FirstMoveMax != 3*time.Second {
		t.Fatalf("first move=%v..%v", cfg.FirstMoveMin, cfg.FirstMoveMax)
	}
	if cfg.GreetingWord != "Hello" {
		t.Fatalf("greeting=%q", cfg.GreetingWord)
	}
}

func TestLoad_RejectsBadRange(t *testing.T) {
	p := writeTuning(t, "bot_first_move_ms: [3000, 1000]\n")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "bot_first_move_ms") {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeTuning(t, "cell_size: [oops\n")
	if _, err := Load(p); err == nil || !strings.HasPrefix(err.Error(), "tuning.yaml:") {
		t.Fatalf("expected yaml error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestDefaults_MatchWorldDefaults(t *testing.T) {
	got := Defaults().WorldConfig()
	want := world.DefaultConfig()
	if got != want {
		t.Fatalf("tuning defaults diverge from world defaults:\n got %+v\nwant %+v", got, want)
	}
}
