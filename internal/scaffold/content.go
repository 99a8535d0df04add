// internal/scaffold/content.go
package scaffold

// Constants for default file contents
const siteYamlContent = `title: From the Depths Blog
description: Blog posts from From the Depths
baseURL: https://youngbloods.org
language: en
author: Your Name
postsPerPage: 10
template: default
store: json
highlightStyle: monokai
`

const archetypePostContent = `Write the opening of {{ .Title }} here. Everything above the marker
becomes the preview on listing pages and in the feed.

{/* preview ends */}

Keep going with the rest of the post.
`

const samplePostBody = `<DropCap>
"Every post starts somewhere," the author said, and this one starts here.
</DropCap>

Markdown works as usual, with *emphasis*, [links](https://example.com) and
footnotes.[^1]

{/* preview ends */}

<TwoColumn>
The two-column block flows its paragraphs side by side on wide screens.

Short paragraphs read best here.
</TwoColumn>

---

<FloatWithParagraph>
  <ImageWithCaption src="/images/example.jpg" caption="A floated image opens full size when clicked." float="left" />
  Text next to the image wraps around it.
</FloatWithParagraph>

[^1]: Footnotes are left out of previews and the feed.
`

const staticCssContent = `body {
  font-family: Georgia, serif;
  max-width: 720px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.7;
  color: #f3e9ea;
  background: #24151a;
}
a { color: #e8a3ad; }
header, footer { font-family: Inter, sans-serif; }
.header-line { display: flex; justify-content: space-between; align-items: baseline; gap: 1em; margin-bottom: 2em; flex-wrap: wrap; }
.site-name { font-size: 1.2em; }
main { margin-bottom: 3em; }
footer { text-align: center; font-size: 0.9em; color: #d8bbbe; }
footer nav a { margin: 0 0.5em; text-decoration: none; }

.post-meta { color: #d8bbbe; font-size: 0.9em; }
.post-preview { margin-bottom: 2.5em; }
.tags a { margin-right: 0.5em; font-size: 0.85em; }
.pagination { display: flex; justify-content: space-between; }

.drop-cap::first-letter,
.drop-cap-letter {
  float: left;
  font-size: 3.6em;
  line-height: 0.8;
  padding: 0.08em 0.08em 0 0;
  color: #e8a3ad;
}
.drop-cap-quote { float: left; font-size: 2.4em; line-height: 0.8; color: #e8a3ad; }

.two-column { column-count: 2; column-gap: 2em; }
.two-column-with-aside { display: grid; grid-template-columns: 2fr 1fr; gap: 2em; }
@media (max-width: 640px) {
  .two-column { column-count: 1; }
  .two-column-with-aside { grid-template-columns: 1fr; }
}

.float-with-paragraph { overflow: auto; }
figure { margin: 1.5em 0; }
figure img { max-width: 100%; height: auto; border-radius: 0.5rem; display: block; }
figcaption { margin-top: 0.5em; font-size: 0.85em; font-style: italic; text-align: center; color: #d8bbbe; }
.float-left { float: left; clear: left; margin-right: 1em; max-width: 14rem; }
.float-right { float: right; clear: right; margin-left: 1em; max-width: 14rem; }
@media (min-width: 1024px) {
  .float-left, .float-right { max-width: 21rem; }
}
.cursor-pointer { cursor: pointer; }

.decorative-spacer { text-align: center; letter-spacing: 0.5em; margin: 2.5em 0; color: #e8a3ad; }

.substack-post-embed { border-radius: 0.5rem; padding: 1em; background: rgba(62, 36, 39, 0.5); margin: 2em 0; }

.lightbox-overlay {
  position: fixed;
  inset: 0;
  background: rgba(0, 0, 0, 0.9);
  display: flex;
  align-items: center;
  justify-content: center;
  z-index: 50;
}
.lightbox-overlay img { max-width: 95vw; max-height: 85vh; }
.lightbox-close { position: absolute; top: 1em; right: 1em; font-size: 2em; background: none; border: none; color: #fff; cursor: pointer; }
`

const templateLayoutHtmlContent = `{{ define "main" }}
<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ if eq .Kind "list" }}{{ .Site.Title }}{{ else }}{{ .Title }} | {{ .Site.Title }}{{ end }}</title>
  <meta name="description" content="{{ .Description }}">
  <link rel="stylesheet" href="{{ .BaseHref }}css/style.css">
  <link rel="alternate" type="application/rss+xml" title="{{ .Site.Title }}" href="{{ .FeedHref }}">
</head>
<body>
  {{ template "header" . }}
  <main>
  {{ if eq .Kind "post" }}
    <article>
      <h1>{{ .Post.Title }}</h1>
      {{ if .Post.Subtitle }}<p class="post-subtitle">{{ .Post.Subtitle }}</p>{{ end }}
      <p class="post-meta">{{ .Post.Date }}</p>
      {{ .Content }}
      {{ if .Post.Tags }}<p class="tags">{{ range .Post.Tags }}<a href="{{ $.BaseHref }}{{ .Href }}">#{{ .Tag }}</a>{{ end }}</p>{{ end }}
    </article>
  {{ else if eq .Kind "tags" }}
    <h1>Tags</h1>
    <p class="tags">{{ range .Tags }}<a href="{{ $.BaseHref }}{{ .Href }}">{{ .Tag }} ({{ .Count }})</a>{{ end }}</p>
  {{ else }}
    {{ if .Tag }}<h1>Posts tagged {{ .Tag }}</h1>{{ end }}
    {{ range .Posts }}
    <section class="post-preview">
      <h2><a href="{{ $.BaseHref }}{{ .Href }}">{{ .Title }}</a></h2>
      <p class="post-meta">{{ .Date }}</p>
      {{ .Preview }}
      {{ if .HasMore }}<p><a href="{{ $.BaseHref }}{{ .Href }}">Continue reading</a></p>{{ end }}
    </section>
    {{ else }}
    <p>Nothing here yet.</p>
    {{ end }}
    {{ if gt .TotalPages 1 }}
    <nav class="pagination">
      {{ if .PrevHref }}<a href="{{ .BaseHref }}{{ .PrevHref }}">Newer</a>{{ else }}<span></span>{{ end }}
      <span>Page {{ .Page }} of {{ .TotalPages }}</span>
      {{ if .NextHref }}<a href="{{ .BaseHref }}{{ .NextHref }}">Older</a>{{ else }}<span></span>{{ end }}
    </nav>
    {{ end }}
  {{ end }}
  </main>
  {{ template "footer" . }}
  {{ range .Scripts }}<script src="{{ $.BaseHref }}{{ . }}" defer></script>{{ end }}
  {{ range .ExternalScripts }}<script src="{{ . }}" async charset="utf-8"></script>{{ end }}
</body>
</html>
{{ end }}`

const templateHeaderHtmlContent = `{{ define "header" }}
<header>
  <div class="header-line">
    <a class="site-name" href="{{ .BaseHref }}index.html">{{ .Site.Title }}</a>
    {{ if .Site.Author }}<span class="site-author">{{ .Site.Author }}</span>{{ end }}
  </div>
</header>
{{ end }}`

const templateFooterHtmlContent = `{{ define "footer" }}
<footer>
  <nav>
    <a href="{{ .BaseHref }}index.html">home</a>
    <a href="{{ .BaseHref }}blog/tags.html">tags</a>
    <a href="{{ .FeedHref }}">rss</a>
  </nav>
  <div class="copyright">
    &copy; {{ .Site.Title }}
  </div>
</footer>
{{ end }}`
