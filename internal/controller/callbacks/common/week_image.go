package common

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
	minLabelHeight   = 18.0
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 14.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	pastDayColor     = color.NRGBA{205, 205, 205, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{90, 95, 100, 220}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// WeekImageData входные данные картинки недели.
// Все интервалы рисуются в поясе WeekStart.
type WeekImageData struct {
	Title     string
	WeekStart time.Time // полночь первого дня недели
	Slots     []model.Slot
	Bookings  []model.Booking
	Now       time.Time
}

// block прямоугольник на сетке: свободный слот или запись
type block struct {
	start, end time.Time
	booked     bool
	label      string
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var fontData = map[FontStyle][]byte{
	FontStyleDefault: goregular.TTF,
	FontStyleMedium:  gomedium.TTF,
	FontStyleBold:    gobold.TTF,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData[fontStyle])
		if err != nil {
			parsed = nil
		}
		cachedFonts[fontStyle] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage генерирует PNG недели: свободные слоты и занятые записи
func GenerateWeekImage(data WeekImageData) ([]byte, error) {
	loc := data.WeekStart.Location()
	weekStart := normalizeToDay(data.WeekStart)
	now := data.Now.In(loc)
	today := normalizeToDay(now)

	blocksByDay := groupBlocksByDay(toBlocks(data, loc))
	hours := calculateHourRange(blocksByDay)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, data.Title, weekStart)
	drawHourLabels(dc, hours, cellHeight)

	todayIndex := -1
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		date := weekStart.AddDate(0, 0, dayIndex)
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := isSameDay(date, today)
		if isToday {
			todayIndex = dayIndex
		}

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday, date.Before(today))
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, b := range blocksByDay[date.Format(dateLayout)] {
			drawBlock(dc, b, x, y, dayWidth, hours, cellHeight)
		}
	}

	if todayIndex >= 0 {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth, loc)

	return encodeImage(dc)
}

// toBlocks переводит слоты и активные записи в блоки в поясе loc
func toBlocks(data WeekImageData, loc *time.Location) []block {
	weekStart := normalizeToDay(data.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, totalDaysInWeek)

	blocks := make([]block, 0, len(data.Slots)+len(data.Bookings))
	for _, s := range data.Slots {
		if s.Start.Before(weekStart) || !s.Start.Before(weekEnd) {
			continue
		}
		blocks = append(blocks, block{start: s.Start.In(loc), end: s.End.In(loc)})
	}
	for _, b := range data.Bookings {
		if !b.IsActive() || b.Start.Before(weekStart) || !b.Start.Before(weekEnd) {
			continue
		}
		blocks = append(blocks, block{start: b.Start.In(loc), end: b.End.In(loc), booked: true, label: b.AttendeeName})
	}
	return blocks
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// groupBlocksByDay группирует блоки по дням
func groupBlocksByDay(blocks []block) map[string][]block {
	byDay := make(map[string][]block)
	for _, b := range blocks {
		key := b.start.Format(dateLayout)
		byDay[key] = append(byDay[key], b)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(blocksByDay map[string][]block) hourRange {
	minHour := 24
	maxHour := 0

	for _, blocks := range blocksByDay {
		for _, b := range blocks {
			startH := b.start.Hour()
			endH := b.end.Hour()
			if b.end.Minute() > 0 {
				endH++
			}
			if !isSameDay(b.start, b.end) {
				endH = 24
			}
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}
	if endHour <= startHour {
		endHour = startHour + 1
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок: событие и месяц
func drawHeader(dc *gg.Context, title string, weekStart time.Time) {
	startMonth := weekStart.Month()
	endMonth := weekStart.AddDate(0, 0, totalDaysInWeek-1).Month()

	month := formatting.GetMonthName(startMonth)
	if startMonth != endMonth {
		month += " - " + formatting.GetMonthName(endMonth)
	}
	month += " " + strconv.Itoa(weekStart.Year())
	if title != "" {
		month = title + " · " + month
	}

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(month)
	dc.DrawStringAnchored(month, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// isSameDay проверяет, являются ли две даты одним днем
func isSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday, isPast bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case isPast:
		dc.SetColor(pastDayColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.GetWeekdayShortName(int(date.Weekday())), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// blockHours начало и конец блока в часах от полуночи его дня
func blockHours(b block) (float64, float64) {
	start := float64(b.start.Hour()) + float64(b.start.Minute())/60.0
	end := float64(b.end.Hour()) + float64(b.end.Minute())/60.0
	if !isSameDay(b.start, b.end) {
		end = 24
	}
	return start, end
}

// drawBlock рисует один слот или запись
func drawBlock(dc *gg.Context, b block, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour, endHour := blockHours(b)

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := (endHour - startHour) * cellHeight
	if blockHeight < minSlotHeight {
		blockHeight = minSlotHeight
	}

	fillColor := slotFreeColor
	txtColor := slotTextColor
	if b.booked {
		fillColor = slotBookedColor
		txtColor = slotBookedTextColor
	}
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Stroke()

	if blockHeight < minLabelHeight {
		return
	}

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(txtColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := blockY + 8 + 8
	dc.DrawStringAnchored(formatting.FormatTimeRange(b.start, b.end), txtX, txtY, 0, 0)

	if b.label != "" && blockHeight > 2*minLabelHeight {
		label := []rune(b.label)
		if len(label) > 18 {
			label = append(label[:15], []rune("...")...)
		}
		loadFont(dc, slotTimeFontSize-2, FontStyleDefault)
		dc.DrawStringAnchored(string(label), txtX, txtY+16, 0, 0)
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0

	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int, loc *time.Location) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Занято", slotBookedColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}

	loadFont(dc, legendItemFontSize)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored(loc.String(), legendX, legendY, 0, 0)
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// формат числа с двумя цифрами
func formatTwoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func formatHourLabel(h int) string {
	return formatTwoDigits(h) + ":00"
}
