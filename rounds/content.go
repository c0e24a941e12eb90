package rounds

import "time"

// Round kinds, matching the game selector of the web client.
const (
	KindShake      = "shake"       // lắc điện thoại
	KindShakeStick = "shake-stick" // lắc que xin lộc
	KindScramble   = "scramble"    // xếp chữ Tết
	KindQuiz       = "quiz"        // đố vui Tết
)

// Per-kind resolution timeouts. A submit after the deadline still resolves
// the round, as a definitive non-bonus outcome.
var kindTimeouts = map[string]time.Duration{
	KindShake:      60 * time.Second,
	KindShakeStick: 60 * time.Second,
	KindScramble:   30 * time.Second,
	KindQuiz:       15 * time.Second,
}

// ValidKind reports whether k names a known round kind.
func ValidKind(k string) bool {
	_, ok := kindTimeouts[k]
	return ok
}

// Timeout returns the resolution window for a kind.
func Timeout(kind string) time.Duration {
	return kindTimeouts[kind]
}

// Tết greetings used by the scramble rounds; the player reorders the words.
var scrambleSentences = []string{
	"Chúc Mừng Năm Mới",
	"An Khang Thịnh Vượng",
	"Vạn Sự Như Ý",
	"Phát Tài Phát Lộc",
	"Sức Khỏe Dồi Dào",
	"Năm Mới Bình An",
	"Tấn Tài Tấn Lộc",
	"Sung Túc Viên Mãn",
	"Mã Đáo Thành Công",
	"Cung Chúc Tân Xuân",
	"Đắc Lộc Đắc Tài",
	"Hạnh Phúc Tràn Đầy",
	"Xuân Sang Phú Quý",
	"Tài Lộc Đầy Nhà",
	"Vui Vẻ Hạnh Phúc",
}

// Question is one quiz entry. Correct stays server-side.
type Question struct {
	Question string
	Options  []string
	Correct  int
}

var quizQuestions = []Question{
	{"Tết Nguyên Đán còn gọi là gì?", []string{"Tết Trung Thu", "Tết Âm Lịch", "Tết Dương Lịch", "Tết Đoan Ngọ"}, 1},
	{"Hoa nào là đặc trưng của Tết miền Bắc?", []string{"Hoa mai", "Hoa đào", "Hoa cúc", "Hoa lan"}, 1},
	{"Hoa nào là đặc trưng của Tết miền Nam?", []string{"Hoa đào", "Hoa mai vàng", "Hoa hồng", "Hoa ly"}, 1},
	{"Bánh chưng tượng trưng cho điều gì?", []string{"Trời tròn", "Đất vuông", "Mặt trời", "Mặt trăng"}, 1},
	{"Năm 2025 là năm con gì?", []string{"Mèo", "Rồng", "Rắn", "Ngựa"}, 2},
	{"Mùng 1 Tết thường đi đâu?", []string{"Nhà bạn", "Nhà cha", "Nhà ngoại", "Đi chơi"}, 1},
	{"Mùng 2 Tết thường đi đâu?", []string{"Nhà cha", "Nhà mẹ (ngoại)", "Nhà thầy", "Đi du lịch"}, 1},
	{"Mùng 3 Tết thường đi đâu?", []string{"Nhà ngoại", "Nhà bạn", "Nhà thầy", "Nhà cha"}, 2},
	{"\"Mứt Tết\" phổ biến nhất là loại nào?", []string{"Mứt dâu", "Mứt dừa", "Mứt táo", "Mứt nho"}, 1},
	{"Tục \"xông đất\" có nghĩa là gì?", []string{"Dọn nhà", "Người đầu tiên vào nhà năm mới", "Trồng cây", "Đốt pháo"}, 1},
	{"Cây nêu ngày Tết có ý nghĩa gì?", []string{"Trang trí", "Xua đuổi tà ma", "Cầu mưa", "Đánh dấu lãnh thổ"}, 1},
	{"Trong 12 con giáp, con nào đứng đầu?", []string{"Rồng", "Tý (Chuột)", "Hổ", "Trâu"}, 1},
	{"Lì xì thường được bỏ trong bao màu gì?", []string{"Vàng", "Đỏ", "Xanh", "Trắng"}, 1},
	{"Câu đối Tết thường viết trên giấy màu gì?", []string{"Trắng", "Vàng", "Đỏ", "Xanh"}, 2},
	{"Món ăn nào KHÔNG phải truyền thống ngày Tết?", []string{"Bánh chưng", "Thịt kho hột vịt", "Pizza", "Dưa hành"}, 2},
	{"Tết Nguyên Đán thường rơi vào tháng nào dương lịch?", []string{"Tháng 12", "Tháng 1 hoặc 2", "Tháng 3", "Tháng 4"}, 1},
}
