package session

import (
	"testing"

	"src.wkbench.dev/pkg/tt"
)

func TestRewriteLaunch(t *testing.T) {
	rewrite := func(s string) (string, bool) { return RewriteLaunch("java", JavaLaunch, s) }
	tt.Test(t, tt.Fn("RewriteLaunch", rewrite), tt.Table{
		tt.Args("java Foo a b").Rets(`Foo.main(new String[]{"a","b"});`, true),
		tt.Args("java Foo a b;").Rets(`Foo.main(new String[]{"a","b"});`, true),
		tt.Args("java   Foo\t\"x\"").Rets(`Foo.main(new String[]{"\"x\""});`, true),
		tt.Args("java Foo;").Rets(`Foo.main(new String[]{});`, true),
		tt.Args("javac Foo").Rets("javac Foo", false),
		tt.Args("java").Rets("java", false),
		tt.Args("Foo.main(null)").Rets("Foo.main(null)", false),
	})
}

func TestScriptLaunch(t *testing.T) {
	tt.Test(t, tt.Fn("ScriptLaunch", ScriptLaunch), tt.Table{
		tt.Args("App", []string{}).Rets(`App.main([]);`),
		tt.Args("App", []string{"a", "b c"}).Rets(`App.main(["a","b c"]);`),
	})
}

func TestJavaLaunch_Escapes(t *testing.T) {
	tt.Test(t, tt.Fn("JavaLaunch", JavaLaunch), tt.Table{
		tt.Args("A", []string{`back\slash`, `"q"`}).
			Rets(`A.main(new String[]{"back\\slash","\"q\""});`),
		tt.Args("A", []string{"bell\a", "nul\x00", "esc\x1b"}).
			Rets(`A.main(new String[]{"bell\u0007","nul\u0000","esc\u001b"});`),
		tt.Args("A", []string{"tab\tnl\ncr\rff\fbs\b"}).
			Rets(`A.main(new String[]{"tab\tnl\ncr\rff\fbs\b"});`),
		tt.Args("A", []string{"héllo", "日本"}).
			Rets(`A.main(new String[]{"héllo","日本"});`),
		tt.Args("A", []string{"zw\u200b", "tag\U000E0001"}).
			Rets(`A.main(new String[]{"zw\u200b","tag\udb40\udc01"});`),
	})
}
