package cv

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"gocv.io/x/gocv"

	"github.com/screenhelper/screenhelper/pkg/match"
)

// 标注默认样式
var (
	annotateColor     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	annotateThickness = 2
	annotateFontSize  = 14.0
)

// boundsOf 候选的外接矩形（中心坐标换算为左上角）
func boundsOf(cand match.Candidate) image.Rectangle {
	x0 := cand.Position.X - cand.Dimensions.Width/2
	y0 := cand.Position.Y - cand.Dimensions.Height/2
	return image.Rect(x0, y0, x0+cand.Dimensions.Width, y0+cand.Dimensions.Height)
}

// DrawMatch 在图像上绘制单个候选的外接矩形
func DrawMatch(img *gocv.Mat, cand match.Candidate) {
	gocv.Rectangle(img, boundsOf(cand), annotateColor, annotateThickness)
}

// DrawMatches 在图像上绘制全部候选的外接矩形
func DrawMatches(img *gocv.Mat, candidates []match.Candidate) {
	for _, cand := range candidates {
		DrawMatch(img, cand)
	}
}

// AnnotateMatches 在图像副本上绘制候选矩形与分数标签
//
// 每个候选绘制红色边框，并在左上角标注序号与匹配分数，
// 用于调试输出。fontData 为 TTF 字体文件内容。
func AnnotateMatches(src image.Image, candidates []match.Candidate, fontData []byte) (image.Image, error) {
	parsedFont, err := freetype.ParseFont(fontData)
	if err != nil {
		return nil, fmt.Errorf("字体解析失败: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for _, cand := range candidates {
		drawBorder(canvas, boundsOf(cand))
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(annotateFontSize)
	ctx.SetClip(bounds)
	ctx.SetDst(canvas)
	ctx.SetSrc(image.NewUniform(annotateColor))

	for i, cand := range candidates {
		label := fmt.Sprintf("#%d %.2f", i+1, cand.Score)
		rect := boundsOf(cand)
		pt := freetype.Pt(rect.Min.X, rect.Min.Y-4)
		if _, err := ctx.DrawString(label, pt); err != nil {
			return nil, fmt.Errorf("绘制标签失败: %w", err)
		}
	}
	return canvas, nil
}

// LoadFont 解析 TTF 字体，供重复标注时复用
func LoadFont(fontData []byte) (*truetype.Font, error) {
	return freetype.ParseFont(fontData)
}

// drawBorder 逐像素绘制矩形边框
func drawBorder(canvas *image.RGBA, rect image.Rectangle) {
	rect = rect.Intersect(canvas.Bounds())
	for t := 0; t < annotateThickness; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			canvas.Set(x, rect.Min.Y+t, annotateColor)
			canvas.Set(x, rect.Max.Y-1-t, annotateColor)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			canvas.Set(rect.Min.X+t, y, annotateColor)
			canvas.Set(rect.Max.X-1-t, y, annotateColor)
		}
	}
}
