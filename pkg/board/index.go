package board

// IndexedKinds are the piece kinds tracked by a PieceIndex.
var IndexedKinds = []PieceKind{Knight, Bishop, Rook, Queen}

// PieceIndex maps each of the knight, bishop, rook and queen kinds
// to the squares those pieces occupy for the side to move. It is
// built once per position and shared by every detector.
type PieceIndex struct {
	squares map[PieceKind][]Square
}

// NewPieceIndex scans pos for the side to move's minor and major
// pieces.
func NewPieceIndex(pos Position) *PieceIndex {
	idx := &PieceIndex{squares: make(map[PieceKind][]Square, len(IndexedKinds))}
	turn := pos.Turn()
	for sq := Square(0); sq < 64; sq++ {
		p, ok := pos.PieceAt(sq)
		if !ok || p.Color != turn {
			continue
		}
		switch p.Kind {
		case Knight, Bishop, Rook, Queen:
			idx.squares[p.Kind] = append(idx.squares[p.Kind], sq)
		}
	}
	return idx
}

// Squares returns the occupied squares for kind.
func (i *PieceIndex) Squares(kind PieceKind) []Square {
	return i.squares[kind]
}

// Has reports whether a piece of kind stands on sq.
func (i *PieceIndex) Has(kind PieceKind, sq Square) bool {
	for _, s := range i.squares[kind] {
		if s == sq {
			return true
		}
	}
	return false
}
