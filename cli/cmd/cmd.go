package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mexl/lang"
	"github.com/ardnew/mexl/log"
	"github.com/ardnew/mexl/model"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// searchPathKey is used to store the model search path in [context.Context].
type searchPathKey struct{}

// WithSearchPath returns a new context.Context containing the directories
// searched for model files named by relative path.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// findModel resolves a model file path. A path naming an existing file is
// used as given; otherwise it is joined against each search path directory
// in order and the first match wins.
func findModel(ctx context.Context, path string) (string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}

	if !filepath.IsAbs(path) {
		for _, dir := range searchPathFrom(ctx) {
			joined := filepath.Join(dir, path)
			if info, err := os.Stat(joined); err == nil && !info.IsDir() {
				return joined, nil
			}
		}
	}

	return "", ErrModelNotFound.Wrapf("'%s' (searched %d director(ies))",
		path, len(searchPathFrom(ctx)))
}

// loadModel locates and loads one model file, returning the loaded model and
// the path it was found at. Expression validation failures surface as the
// session's [model.Invalid] error.
func loadModel(ctx context.Context, path string, fold bool) (*model.Model, string, error) {
	resolved, err := findModel(ctx, path)
	if err != nil {
		return nil, "", err
	}

	sess := model.NewSession(
		model.WithCaseFold(fold),
		model.WithLogger(log.Default()),
	)

	m, err := sess.LoadFile(resolved)
	if err != nil {
		return nil, resolved, err
	}

	log.DebugContext(ctx, "model loaded",
		slog.String("path", resolved),
		slog.String("id", m.ID),
	)

	return m, resolved, nil
}

// ownerKinds maps the owner kind names accepted by --kind flags to the
// expression contracts they select.
var ownerKinds = map[string]func() lang.Owner{
	"observable":     model.ObservableExpression,
	"function":       model.FunctionExpression,
	"rate-law":       model.RateLawExpression,
	"objective":      model.ObjectiveExpression,
	"stop-condition": model.StopConditionExpression,
}

// formatResult renders an evaluation result the way a model author wrote it:
// floats without exponent noise, booleans bare.
func formatResult(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)

	case bool:
		return strconv.FormatBool(v)

	case int:
		return strconv.Itoa(v)

	default:
		return fmt.Sprint(v)
	}
}
