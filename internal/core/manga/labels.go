// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

// # Admin List Labels
//
// The admin screen sends its dropdown labels verbatim. Unknown labels, and the
// AllCategories label, disable the criterion.

// StatusFromLabel resolves a status dropdown label.
func StatusFromLabel(label string) (Status, bool) {
	for _, status := range Statuses {
		if status.Label() == label {
			return status, true
		}
	}
	return 0, false
}

// VisibilityFromLabel resolves the "statusOff" dropdown label.
func VisibilityFromLabel(label string) Visibility {
	switch label {
	case "Đang hiện":
		return VisibilityActive
	case "Đang ẩn":
		return VisibilityHidden
	}
	return VisibilityAll
}

// SortFromLabel resolves the sort dropdown label to a sort key.
func SortFromLabel(label string) string {
	switch label {
	case "Lượt xem cao":
		return SortViewCount
	case "Lượt đánh giá cao":
		return SortStar
	case "Lượt theo dõi cao":
		return SortFollowCount
	}
	return SortModifiedAt
}

// sortOptions are offered on the public search form.
var sortOptions = []Option{
	{Value: "ModifiedAt", Label: "Ngày cập nhật"},
	{Value: "ViewCount", Label: "Top view"},
	{Value: "FollowCount", Label: "Top follower"},
	{Value: "Star", Label: "Đánh giá cao"},
	{Value: "CreatedAt", Label: "Mới nhất"},
}
