package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/compiler"
	"github.com/kristofer/loxgo/internal/value"
)

// run compiles and executes source against a fresh VM, returning
// whatever PRINT wrote and the interpretation error, if any. Grounded
// on the compile-then-run shape of kristofer-smog's own test/*_test.go
// end-to-end tests, adapted to this package's types.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	heap := value.NewHeap()
	fn, err := compiler.Compile(source, heap)
	require.NoError(t, err, "compile error")

	machine := New(heap)
	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)

	runErr := machine.Interpret(fn)
	return out.String(), runErr
}

func TestPrintArithmetic(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	require.Equal(t, "foobar\n", out)
}

func TestGlobalVariableAssignment(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		x = x + 41;
		print x;
	`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Undefined variable")
}

func TestAssigningUndeclaredGlobalIsRuntimeErrorAndDoesNotLeakKey(t *testing.T) {
	heap := value.NewHeap()
	fn, err := compiler.Compile(`ghost = 1;`, heap)
	require.NoError(t, err, "compile error")

	machine := New(heap)
	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)

	err = machine.Interpret(fn)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Undefined variable")

	_, ok := machine.globals.Get(heap.InternString("ghost"))
	require.False(t, ok, "a failed assignment must not leave the global defined")
}

func TestIfElseBranches(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
		if (1 > 2) { print "yes"; } else { print "no"; }
	`)
	require.NoError(t, err)
	require.Equal(t, "yes\nno\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	require.NoError(t, err)
	require.Equal(t, "false\ntrue\n", out)
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
		fun add(a, b) { return a + b; }
		print add(2, 3);
	`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	require.Equal(t, "55\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun add(a, b) { return a + b; }
		add(1);
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Expected 2 arguments but got 1")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestClosureCapturesByReference(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestTwoClosuresShareTheSameUpvalue(t *testing.T) {
	out, err := run(t, `
		fun pair() {
			var shared = 0;
			fun set(v) { shared = v; }
			fun get() { return shared; }
			set(7);
			print get();
		}
		pair();
	`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestClassInstantiationAndFields(t *testing.T) {
	out, err := run(t, `
		class Point {}
		var p = Point();
		p.x = 3;
		p.y = 4;
		print p.x + p.y;
	`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestMethodCallBindsThis(t *testing.T) {
	out, err := run(t, `
		class Counter {
			init() { this.count = 0; }
			increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter();
		print c.increment();
		print c.increment();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)
}

func TestMethodReadAsValueProducesBoundMethod(t *testing.T) {
	out, err := run(t, `
		class Greeter {
			greet() { return "hi"; }
		}
		var g = Greeter();
		var m = g.greet;
		print m();
	`)
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		class Empty {}
		var e = Empty();
		print e.missing;
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Undefined property")
}

func TestPropertyAccessOnNonInstanceIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		print x.y;
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Only instances have properties")
}

func TestArithmeticOnNonNumbersIsRuntimeError(t *testing.T) {
	_, err := run(t, `print "a" - 1;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Operands must be numbers")
}

func TestAddRequiresMatchingOperandTypes(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "two numbers or two strings")
}

func TestComparisonOperators(t *testing.T) {
	out, err := run(t, `
		print 1 < 2;
		print 2 <= 2;
		print 3 > 2;
		print 2 >= 3;
		print 1 == 1;
		print 1 != 1;
	`)
	require.NoError(t, err)
	require.Equal(t, "true\ntrue\ntrue\nfalse\ntrue\nfalse\n", out)
}

func TestFalsyValuesIncludeNumericZero(t *testing.T) {
	out, err := run(t, `
		print !0;
		print !1;
		print !nil;
		print !false;
	`)
	require.NoError(t, err)
	require.Equal(t, "true\nfalse\ntrue\ntrue\n", out)
}

func TestRuntimeErrorIncludesStackTrace(t *testing.T) {
	_, err := run(t, `
		fun boom() { return 1 + "x"; }
		boom();
	`)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "boom()"))
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}

func TestNativeStrFormatsValues(t *testing.T) {
	out, err := run(t, `print str(42);`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestNativeLenOfString(t *testing.T) {
	out, err := run(t, `print len("hello");`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

