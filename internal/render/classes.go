// internal/render/classes.go
package render

import "fromthedepths/internal/mdx"

// Class names shared by every backend. Stylesheets and the lightbox script
// depend on them.
const (
	ClassDropCap         = "drop-cap"
	ClassDropCapQuoted   = "drop-cap-quoted"
	ClassDropCapQuote    = "drop-cap-quote"
	ClassDropCapLetter   = "drop-cap-letter"
	ClassTwoColumn       = "two-column"
	ClassTwoColumnAside  = "two-column-with-aside"
	ClassTwoColumnMain   = "two-column-main"
	ClassTwoColumnSide   = "two-column-aside"
	ClassFloatParagraph  = "float-with-paragraph"
	ClassFigureCaption   = "mt-2 text-sm text-[#d8bbbe] opacity-85 italic text-center font-[Inter] w-full max-w-full text-balance"
	ClassEmbed           = "substack-post-embed my-8 rounded-lg overflow-hidden bg-[#3e2427]/50"
	ClassLightboxTrigger = "cursor-pointer"
)

// FigureClasses are the classes of a captioned image's three elements.
type FigureClasses struct {
	Figure  string
	Image   string
	Caption string
}

// ImageClasses derives the figure classes from the float settings.
// Floated images get half of 28rem below lg and three quarters of it above;
// clear-left/clear-right stack same-side floats while letting opposite
// sides share a row.
func ImageClasses(img mdx.CaptionedImage) FigureClasses {
	var floatClasses string
	switch img.Float {
	case "left":
		floatClasses = "float-left clear-left mr-4 mb-4 max-w-[14rem] lg:max-w-[21rem]"
	case "right":
		floatClasses = "float-right clear-right ml-4 mb-4 max-w-[14rem] lg:max-w-[21rem]"
	}

	if img.Float == "" {
		return FigureClasses{
			Figure:  "my-6",
			Image:   "max-w-full h-auto rounded-lg w-full",
			Caption: ClassFigureCaption,
		}
	}
	margin := "my-4"
	if img.AlignTop {
		margin = "mb-4 align-top"
	}
	return FigureClasses{
		Figure:  "w-max " + margin + " " + floatClasses,
		Image:   "max-w-full h-auto rounded-lg block",
		Caption: ClassFigureCaption,
	}
}

// EmbedClasses returns the classes of an embed card.
func EmbedClasses(e mdx.Embed) string {
	switch e.Float {
	case "left":
		return ClassEmbed + " float-left clear-left mr-4 mb-4 max-w-md"
	case "right":
		return ClassEmbed + " float-right clear-right ml-4 mb-4 max-w-md"
	}
	return ClassEmbed
}
