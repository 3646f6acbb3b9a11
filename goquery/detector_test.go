package goquery_test

import (
	"testing"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/goquery"
	"github.com/stretchr/testify/assert"
)

// markup builds a page with the given html element attributes, head
// elements and body.
func markup(htmlAttrs, head, body string) string {
	return "<!DOCTYPE html><html" + htmlAttrs + "><head><title>Docs</title>" + head + "</head><body>" + body + "</body></html>"
}

func generator(name string) string {
	return `<meta name="generator" content="` + name + `">`
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want doccrawl.Framework
	}{
		{"Docusaurus skip link", markup("", "", `<a id="__docusaurus_skipToContent_fallback" href="#">Skip</a>`), doccrawl.FrameworkDocusaurus},
		{"Docusaurus sidebar", markup("", "", `<div class="theme-doc-sidebar-container"><nav></nav></div>`), doccrawl.FrameworkDocusaurus},
		{"Docusaurus helmet attributes", markup(` data-rh="lang" data-theme="dark"`, "", "<main></main>"), doccrawl.FrameworkDocusaurus},
		{"Docusaurus generator", markup("", generator("Docusaurus v3.5.2"), ""), doccrawl.FrameworkDocusaurus},
		{"MkDocs Material color scheme", markup("", "", `<div data-md-color-scheme="default"></div>`), doccrawl.FrameworkMkDocs},
		{"MkDocs components", markup("", "", `<header data-md-component="header"></header>`), doccrawl.FrameworkMkDocs},
		{"MkDocs primary nav", markup("", "", `<nav class="md-nav md-nav--primary"></nav>`), doccrawl.FrameworkMkDocs},
		{"Sphinx generator", markup("", generator("Sphinx 7.2.6"), ""), doccrawl.FrameworkSphinx},
		{"Sphinx toctree", markup("", "", `<div class="toctree-wrapper compound"></div>`), doccrawl.FrameworkSphinx},
		{"Read the Docs theme", markup("", "", `<nav class="wy-nav-side"></nav>`), doccrawl.FrameworkSphinx},
		{"Sphinx classic sidebar", markup("", "", `<div class="sphinxsidebar"></div>`), doccrawl.FrameworkSphinx},
		{"VitePress content", markup("", "", `<div id="VPContent"></div>`), doccrawl.FrameworkVitePress},
		{"VitePress doc", markup("", "", `<div class="VPDoc has-aside"></div>`), doccrawl.FrameworkVitePress},
		{"VitePress generator", markup("", generator("VitePress v1.0.0"), ""), doccrawl.FrameworkVitePress},
		{"VuePress content", markup("", "", `<div class="theme-default-content"></div>`), doccrawl.FrameworkVuePress},
		{"VuePress sidebar", markup("", "", `<ul class="sidebar-links"></ul>`), doccrawl.FrameworkVuePress},
		{"GitBook generator", markup("", generator("GitBook"), ""), doccrawl.FrameworkGitBook},
		{"GitBook sidebar test ID", markup("", "", `<aside data-testid="space.sidebar"></aside>`), doccrawl.FrameworkGitBook},
		{"GitBook html classes", markup(` class="circular-corners theme-clean tint"`, "", ""), doccrawl.FrameworkGitBook},
		{"Nextra navbar", markup("", "", `<div class="nextra-navbar"></div>`), doccrawl.FrameworkNextra},
		{"Nextra table of contents", markup("", "", `<nav class="nextra-toc"></nav>`), doccrawl.FrameworkNextra},
		{"generator wins over markers", markup("", generator("mkdocs-1.5.3"), `<div class="theme-doc-sidebar-container"></div>`), doccrawl.FrameworkMkDocs},
		{"earlier profile wins among markers", markup("", "", `<div class="toctree-wrapper"></div><div class="nextra-toc"></div>`), doccrawl.FrameworkSphinx},
		{"one GitBook class is not enough", markup(` class="tint"`, "", ""), doccrawl.FrameworkUnknown},
		{"unrelated generator", markup("", generator("Hugo 0.120"), "<main><p>Text</p></main>"), doccrawl.FrameworkUnknown},
		{"plain page", markup("", "", `<main class="content"><p>Text</p></main>`), doccrawl.FrameworkUnknown},
		{"empty input", "", doccrawl.FrameworkUnknown},
		{"malformed markup", "<html><body><div class=", doccrawl.FrameworkUnknown},
	}
	d := goquery.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, d.Detect(tt.html))
		})
	}
}

func TestContentSelectors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md-content__inner"}, goquery.ContentSelectors(doccrawl.FrameworkMkDocs))
	assert.Equal(t, ".theme-doc-markdown", goquery.ContentSelectors(doccrawl.FrameworkDocusaurus)[0])
	assert.Empty(t, goquery.ContentSelectors(doccrawl.FrameworkUnknown))
}
