package layout

import "fmt"

// drawOutline 生成块的外轮廓：顶边、逐行右边缘、底边、左边缘，最后显式闭合。
// 所有 x 都在本地坐标中计算，RTL 镜像由调用方最后统一处理。
func drawOutline(l *Layout, t *Tokens) (Path, error) {
	var p Path
	r := t.CornerRadius

	// 顶边
	if l.SquareTopLeft {
		p.moveTo(0, l.StartY)
	} else {
		p.moveTo(0, l.StartY+r)
		p.add(t.cornerTopLeft()...)
	}
	if l.HasHat {
		p.add(t.hat()...)
	}
	if l.HasPrevious {
		p.horizontal(t.NotchOffsetLeft)
		p.add(t.notch(true)...)
	}
	p.horizontal(l.BodyWidth)

	cursorY := l.StartY + l.TopRow.Height
	penY := l.StartY
	for i, row := range l.Rows {
		if err := row.validate(t); err != nil {
			return Path{}, fmt.Errorf("row %d: %w", i, err)
		}
		if row.IsSpacerRow {
			cursorY += row.Height
			continue
		}
		// 上一行剩余的高度与间隔行高度合并为一条竖边。
		if penY != cursorY {
			p.vertical(cursorY)
			penY = cursorY
		}
		switch {
		case row.HasStatement:
			in, _ := row.statementInput()
			p.horizontal(row.StatementEdge + in.NotchOffset + t.NotchWidth)
			p.add(t.notch(false)...)
			p.add(line(-(in.NotchOffset - r), 0))
			p.add(t.insideCornerTop()...)
			p.vertical(cursorY + row.Height - r)
			p.add(t.insideCornerBottom()...)
			p.horizontal(l.BodyWidth)
			penY = cursorY + row.Height
		case row.HasExternalInput:
			p.horizontal(row.Width)
			p.vertical(cursorY + t.TabOffsetFromTop)
			p.add(t.tab(true)...)
			penY = cursorY + t.TabOffsetFromTop + t.TabHeight
		case row.HasJaggedEdge:
			p.horizontal(row.Width)
			p.add(t.jaggedTeeth()...)
			penY = cursorY + t.JaggedTeethHeight
		default:
			p.horizontal(row.Width)
		}
		cursorY += row.Height
	}

	// 底边
	bottomY := cursorY + l.BottomRow.Height
	if penY != bottomY {
		p.vertical(bottomY)
	}
	if l.HasNext {
		p.horizontal(t.NotchOffsetLeft + t.NotchWidth)
		p.add(t.notch(false)...)
	}
	if l.SquareBottomLeft {
		p.horizontal(0)
	} else {
		p.horizontal(r)
		p.add(t.cornerBottomLeft()...)
	}

	// 左边
	if l.HasOutput {
		p.vertical(l.StartY + t.TabOffsetFromTop + t.TabHeight)
		p.add(t.tab(false)...)
	}
	p.close()

	if !p.Closed() {
		return Path{}, ErrUnclosedContour
	}
	return p, nil
}
