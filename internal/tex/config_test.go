package tex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	texerrors "git.home.luguber.info/inful/texbuilder/internal/tex/errors"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		raw  string
		want Config
	}{
		{"texlive", Config{Distro: DistroTeXLive}},
		{"TeXLive", Config{Distro: DistroTeXLive}},
		{"tectonic:/opt/bin/tectonic", Config{Distro: DistroTectonic, Program: "/opt/bin/tectonic"}},
		{"texlive:foo:bar", Config{Distro: DistroTeXLive, Program: "foo:bar"}},
		{"tectonicembedded", Config{Distro: DistroTectonicEmbedded}},
		{"none", Config{Distro: DistroNone}},
		{"texlive:", Config{Distro: DistroTeXLive}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseConfig(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConfigUnknownKind(t *testing.T) {
	_, err := ParseConfig("latex:/usr/bin/latex")
	require.ErrorIs(t, err, texerrors.ErrUnknownDistro)
	assert.Contains(t, err.Error(), "texlive, tectonic, tectonicembedded, none")
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "texlive", Config{Distro: DistroTeXLive}.String())
	assert.Equal(t, "tectonic:/x/y", Config{Distro: DistroTectonic, Program: "/x/y"}.String())

	cfg, err := ParseConfig("texlive:foo:bar")
	require.NoError(t, err)
	assert.Equal(t, "texlive:foo:bar", cfg.String())
}

func TestProgramOrDefault(t *testing.T) {
	assert.Equal(t, "xelatex", Config{Distro: DistroTeXLive}.ProgramOrDefault())
	assert.Equal(t, "tectonic", Config{Distro: DistroTectonic}.ProgramOrDefault())
	assert.Equal(t, "/bin/lualatex", Config{Distro: DistroTeXLive, Program: "/bin/lualatex"}.ProgramOrDefault())
	assert.Empty(t, Config{Distro: DistroNone}.ProgramOrDefault())
}

func TestConfigUnmarshalYAML(t *testing.T) {
	var doc struct {
		Tex *Config `yaml:"tex"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("tex: tectonic:/usr/local/bin/tectonic\n"), &doc))
	require.NotNil(t, doc.Tex)
	assert.Equal(t, Config{Distro: DistroTectonic, Program: "/usr/local/bin/tectonic"}, *doc.Tex)

	err := yaml.Unmarshal([]byte("tex: miktex\n"), &doc)
	require.ErrorIs(t, err, texerrors.ErrUnknownDistro)

	err = yaml.Unmarshal([]byte("tex: [texlive]\n"), &doc)
	require.Error(t, err)
}

func TestRenderArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-interaction=nonstopmode", "-output-directory", "/tmp/x", "--", "/src/book.tex"},
		Config{Distro: DistroTeXLive}.renderArgs("/tmp/x", "/src/book.tex"))
	assert.Equal(t,
		[]string{"-k", "-r", "0", "-o", "/tmp/x", "-Z", "search-path=/tmp/x", "--", "/src/book.tex"},
		Config{Distro: DistroTectonic}.renderArgs("/tmp/x", "/src/book.tex"))
	assert.Equal(t,
		[]string{"tectonic", "-o", "/tmp/x", "--", "/src/book.tex"},
		Config{Distro: DistroTectonicEmbedded}.renderArgs("/tmp/x", "/src/book.tex"))
	assert.Nil(t, Config{Distro: DistroNone}.renderArgs("/tmp/x", "/src/book.tex"))
}

func TestEngineArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "render pass",
			args: []string{"-o", "/tmp/x", "--", "/src/book.tex"},
			want: []string{"-k", "-r", "0", "-o", "/tmp/x", "-Z", "search-path=/tmp/x", "--", "/src/book.tex"},
		},
		{
			name: "long outdir without separator",
			args: []string{"--outdir=/tmp/y", "book.tex"},
			want: []string{"-k", "-r", "0", "--outdir=/tmp/y", "book.tex", "-Z", "search-path=/tmp/y"},
		},
		{
			name: "no output directory",
			args: []string{"--version"},
			want: []string{"-k", "-r", "0", "--version"},
		},
		{
			name: "flag after separator is a file name",
			args: []string{"--", "-o"},
			want: []string{"-k", "-r", "0", "--", "-o"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EngineArgs(tt.args))
		})
	}
}
