package scanner

// ranked.go — lista ordenada con capacidad acotada.
//
// Las watchlists (near-misses, mercados por liquidez) comparten el mismo
// invariante: insertar-o-reemplazar por clave, mantener el orden y expulsar
// la cola cuando se supera la capacidad. Centralizarlo aquí mantiene el
// invariante testeable en aislamiento en vez de repetir splicing ad hoc.

import "sort"

// rankedList mantiene como máximo capacity elementos ordenados según less.
// Upsert reemplaza por clave; al superar la capacidad se expulsan los peores
// (los del final según el orden).
type rankedList[T any] struct {
	capacity int
	key      func(T) string
	less     func(a, b T) bool
	items    []T
}

func newRankedList[T any](capacity int, key func(T) string, less func(a, b T) bool) *rankedList[T] {
	return &rankedList[T]{
		capacity: capacity,
		key:      key,
		less:     less,
	}
}

// Upsert inserta el elemento, reemplazando cualquier entrada con la misma
// clave, re-ordena y expulsa el exceso de capacidad.
func (l *rankedList[T]) Upsert(item T) {
	k := l.key(item)
	replaced := false
	for i := range l.items {
		if l.key(l.items[i]) == k {
			l.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		l.items = append(l.items, item)
	}

	sort.SliceStable(l.items, func(i, j int) bool {
		return l.less(l.items[i], l.items[j])
	})

	if l.capacity > 0 && len(l.items) > l.capacity {
		l.items = l.items[:l.capacity]
	}
}

// Items devuelve una copia del contenido en orden.
func (l *rankedList[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len devuelve el número de elementos.
func (l *rankedList[T]) Len() int {
	return len(l.items)
}
