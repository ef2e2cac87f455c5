package frontend

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"modernc.org/cc/v4"

	"cimport/internal/model"
)

func TestParseArgs(t *testing.T) {
	o := parseArgs([]string{
		"-x", "c",
		"-std=gnu11",
		"-fsyntax-only",
		"-target", "aarch64-apple-darwin",
		"-I", "/opt/cimport/include",
		"-I/usr/local/include",
		"-isysroot", "/sdk",
		"-DDEBUG", "-D", "LEVEL=2", "-UNDEBUG",
	})

	if o.goos != "darwin" || o.goarch != "arm64" {
		t.Errorf("target = %s/%s, want darwin/arm64", o.goos, o.goarch)
	}
	if o.std != "-std=gnu11" {
		t.Errorf("std = %q", o.std)
	}
	wantInclude := []string{"/opt/cimport/include", "/usr/local/include"}
	if len(o.include) != len(wantInclude) {
		t.Fatalf("include = %v, want %v", o.include, wantInclude)
	}
	for i := range wantInclude {
		if o.include[i] != wantInclude[i] {
			t.Errorf("include[%d] = %s, want %s", i, o.include[i], wantInclude[i])
		}
	}
	if len(o.sysInclude) != 1 || o.sysInclude[0] != filepath.Join("/sdk", "usr", "include") {
		t.Errorf("sysInclude = %v", o.sysInclude)
	}
	wantDefines := []string{"#define DEBUG 1", "#define LEVEL 2", "#undef NDEBUG"}
	if len(o.defines) != len(wantDefines) {
		t.Fatalf("defines = %v, want %v", o.defines, wantDefines)
	}
	for i := range wantDefines {
		if o.defines[i] != wantDefines[i] {
			t.Errorf("defines[%d] = %q, want %q", i, o.defines[i], wantDefines[i])
		}
	}
}

func TestParseArgsTrailingFlag(t *testing.T) {
	o := parseArgs([]string{"-I"})
	if len(o.include) != 0 {
		t.Errorf("include = %v, want none", o.include)
	}
}

func TestIntKind(t *testing.T) {
	tests := []struct {
		size   int64
		signed bool
		want   model.TypeKind
		ok     bool
	}{
		{1, true, model.KindInt8, true},
		{1, false, model.KindUInt8, true},
		{2, true, model.KindInt16, true},
		{4, false, model.KindUInt32, true},
		{8, true, model.KindInt64, true},
		{16, true, "", false},
	}
	for _, tt := range tests {
		got, ok := intKind(tt.size, tt.signed)
		if got != tt.want || ok != tt.ok {
			t.Errorf("intKind(%d, %v) = %s, %v; want %s, %v", tt.size, tt.signed, got, ok, tt.want, tt.ok)
		}
	}
}

const demoHeader = `
typedef unsigned int flags_t;

struct point {
	int x;
	int y;
	struct point *next;
};

typedef struct {
	double re;
	double im;
} complex_t;

union value {
	int i;
	double d;
};

enum color { RED, GREEN = 4, BLUE };

extern int counter;

int add(int a, int b);
int logf_(const char *fmt, ...);
void reset(void);
int legacy();
_Noreturn void die(int code);
void walk(struct point *p, void (*cb)(struct point *));

#define MAX_POINTS 64
#define GREETING "hello"
#define SQUARE(x) ((x) * (x))
`

// parseDemo parses demoHeader, skipping when no host C compiler is available.
func parseDemo(t *testing.T) model.TranslationUnit {
	t.Helper()
	if _, err := cc.NewConfig(runtime.GOOS, runtime.GOARCH); err != nil {
		t.Skipf("no host C compiler: %v", err)
	}

	path := filepath.Join(t.TempDir(), "demo.h")
	if err := os.WriteFile(path, []byte(demoHeader), 0o644); err != nil {
		t.Fatal(err)
	}
	tu, err := New().Parse(path, []string{"-x", "c"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tu.Dispose)
	return tu
}

func children(c model.Cursor) map[string]model.Cursor {
	out := make(map[string]model.Cursor)
	c.Visit(func(child model.Cursor) bool {
		if _, ok := out[child.Spelling()]; !ok {
			out[child.Spelling()] = child
		}
		return true
	})
	return out
}

func TestParseDeclarations(t *testing.T) {
	tu := parseDemo(t)
	decls := children(tu.Root())

	kinds := map[string]model.CursorKind{
		"flags_t":    model.CursorTypedef,
		"point":      model.CursorStruct,
		"complex_t":  model.CursorTypedef,
		"value":      model.CursorUnion,
		"color":      model.CursorEnum,
		"counter":    model.CursorVariable,
		"add":        model.CursorFunction,
		"logf_":      model.CursorFunction,
		"reset":      model.CursorFunction,
		"legacy":     model.CursorFunction,
		"die":        model.CursorFunction,
		"walk":       model.CursorFunction,
		"MAX_POINTS": model.CursorMacro,
		"GREETING":   model.CursorMacro,
		"SQUARE":     model.CursorMacro,
	}
	for name, want := range kinds {
		c, ok := decls[name]
		if !ok {
			t.Errorf("%s not found", name)
			continue
		}
		if c.Kind() != want {
			t.Errorf("%s kind = %s, want %s", name, c.Kind(), want)
		}
	}
}

func TestParseTypes(t *testing.T) {
	tu := parseDemo(t)
	decls := children(tu.Root())

	if k := decls["flags_t"].UnderlyingType().Kind(); k != model.KindUInt32 {
		t.Errorf("flags_t underlying = %s, want uint32", k)
	}

	point := decls["point"]
	if s := point.Type().Spelling(); s != "struct point" {
		t.Errorf("point spelling = %q", s)
	}
	fields := children(point)
	if len(fields) != 3 {
		t.Fatalf("point fields = %d, want 3", len(fields))
	}
	next := fields["next"].Type()
	if next.Kind() != model.KindPointer || next.Pointee().Kind() != model.KindRecord {
		t.Errorf("next = %s -> %s", next.Kind(), next.Pointee().Kind())
	}
	if next.Pointee().Declaration() != point {
		t.Errorf("self reference must resolve to the struct cursor")
	}

	under := decls["complex_t"].UnderlyingType()
	if under.Kind() != model.KindRecord || under.Declaration().Kind() != model.CursorStruct {
		t.Errorf("complex_t underlying = %s", under.Kind())
	}

	colors := children(decls["color"])
	for _, name := range []string{"RED", "GREEN", "BLUE"} {
		if c, ok := colors[name]; !ok || c.Kind() != model.CursorEnumConstant {
			t.Errorf("enumerator %s missing", name)
		}
	}
}

func TestParseFunctions(t *testing.T) {
	tu := parseDemo(t)
	decls := children(tu.Root())

	tests := []struct {
		name     string
		numArgs  int
		variadic bool
		noReturn bool
		kind     model.TypeKind
	}{
		{"add", 2, false, false, model.KindFunctionProto},
		{"logf_", 1, true, false, model.KindFunctionProto},
		{"reset", 0, false, false, model.KindFunctionProto},
		{"legacy", 0, false, false, model.KindFunctionNoProto},
		{"die", 1, false, true, model.KindFunctionProto},
		{"walk", 2, false, false, model.KindFunctionProto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := decls[tt.name]
			if c == nil {
				t.Fatalf("%s not found", tt.name)
			}
			if c.NumArguments() != tt.numArgs {
				t.Errorf("NumArguments = %d, want %d", c.NumArguments(), tt.numArgs)
			}
			if c.IsVariadic() != tt.variadic {
				t.Errorf("IsVariadic = %v", c.IsVariadic())
			}
			if c.IsNoReturn() != tt.noReturn {
				t.Errorf("IsNoReturn = %v", c.IsNoReturn())
			}
			if c.Type().Kind() != tt.kind {
				t.Errorf("type kind = %s, want %s", c.Type().Kind(), tt.kind)
			}
		})
	}

	cb := decls["walk"].Type().Arg(1)
	if cb.Kind() != model.KindPointer || cb.Pointee().Kind() != model.KindFunctionProto {
		t.Errorf("callback = %s -> %s", cb.Kind(), cb.Pointee().Kind())
	}
}

func TestParseMacros(t *testing.T) {
	tu := parseDemo(t)
	decls := children(tu.Root())

	tokens := tu.Tokenize(decls["MAX_POINTS"].Extent())
	if len(tokens) != 2 || tokens[1].Spelling != "64" || tokens[1].Kind != model.TokenLiteral {
		t.Errorf("MAX_POINTS tokens = %+v", tokens)
	}
	tokens = tu.Tokenize(decls["GREETING"].Extent())
	if len(tokens) != 2 || tokens[1].Spelling != `"hello"` || tokens[1].Kind != model.TokenLiteral {
		t.Errorf("GREETING tokens = %+v", tokens)
	}
	if !decls["SQUARE"].IsMacroFunctionLike() {
		t.Errorf("SQUARE must be function-like")
	}
	if decls["MAX_POINTS"].IsMacroFunctionLike() {
		t.Errorf("MAX_POINTS must be object-like")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := cc.NewConfig(runtime.GOOS, runtime.GOARCH); err != nil {
		t.Skipf("no host C compiler: %v", err)
	}
	_, err := New().Parse(filepath.Join(t.TempDir(), "missing.h"), nil)
	if err == nil {
		t.Fatal("Parse of a missing file must fail")
	}
}
