package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ReadImage 从磁盘读取图像文件
func ReadImage(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return gocv.Mat{}, fmt.Errorf("读取图像文件失败: %s", path)
	}
	return mat, nil
}

// ImageToMat 将 image.Image 转换为 gocv.Mat
func ImageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	return mat, nil
}

// ToGray 转换为灰度图
func ToGray(src gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	return gray
}

// checkSourceLargerThanSearch 校验屏幕图像尺寸不小于模板
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Empty() || search.Empty() {
		return fmt.Errorf("图像为空，无法执行匹配")
	}
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return fmt.Errorf("模板尺寸 %dx%d 超过屏幕图像尺寸 %dx%d",
			search.Cols(), search.Rows(), source.Cols(), source.Rows())
	}
	return nil
}
