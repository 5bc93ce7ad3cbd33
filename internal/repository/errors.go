package repository

import "errors"

var (
	// ErrNotFound возвращается из Update/Delete, когда строки нет
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken у хоста уже есть активное бронирование на это время
	ErrSlotTaken = errors.New("slot already taken")
)
