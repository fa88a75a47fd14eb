package position

const (
	A1 Pos = 0x00
	B1 Pos = 0x01
	C1 Pos = 0x02
	D1 Pos = 0x03
	E1 Pos = 0x04
	F1 Pos = 0x05
	G1 Pos = 0x06
	H1 Pos = 0x07

	A2 Pos = 0x10
	B2 Pos = 0x11
	C2 Pos = 0x12
	D2 Pos = 0x13
	E2 Pos = 0x14
	F2 Pos = 0x15
	G2 Pos = 0x16
	H2 Pos = 0x17

	A3 Pos = 0x20
	B3 Pos = 0x21
	C3 Pos = 0x22
	D3 Pos = 0x23
	E3 Pos = 0x24
	F3 Pos = 0x25
	G3 Pos = 0x26
	H3 Pos = 0x27

	A4 Pos = 0x30
	B4 Pos = 0x31
	C4 Pos = 0x32
	D4 Pos = 0x33
	E4 Pos = 0x34
	F4 Pos = 0x35
	G4 Pos = 0x36
	H4 Pos = 0x37

	A5 Pos = 0x40
	B5 Pos = 0x41
	C5 Pos = 0x42
	D5 Pos = 0x43
	E5 Pos = 0x44
	F5 Pos = 0x45
	G5 Pos = 0x46
	H5 Pos = 0x47

	A6 Pos = 0x50
	B6 Pos = 0x51
	C6 Pos = 0x52
	D6 Pos = 0x53
	E6 Pos = 0x54
	F6 Pos = 0x55
	G6 Pos = 0x56
	H6 Pos = 0x57

	A7 Pos = 0x60
	B7 Pos = 0x61
	C7 Pos = 0x62
	D7 Pos = 0x63
	E7 Pos = 0x64
	F7 Pos = 0x65
	G7 Pos = 0x66
	H7 Pos = 0x67

	A8 Pos = 0x70
	B8 Pos = 0x71
	C8 Pos = 0x72
	D8 Pos = 0x73
	E8 Pos = 0x74
	F8 Pos = 0x75
	G8 Pos = 0x76
	H8 Pos = 0x77
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)
