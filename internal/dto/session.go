package dto

import "github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"

// Session 认证成功后的显式会话值
// 由 AuthService 签发、经 JWT 往返后在每次工作流调用中显式传入，
// 不存在任何"当前用户"式的全局状态。
//
// 学生会话携带登录时快照的导师信息（TutorID / TutorName），
// 该快照即提交请假单时的审批人，之后不重算。
type Session struct {
	Kind      model.PrincipalKind `json:"kind"`
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Dept      string              `json:"dept,omitempty"`
	Email     string              `json:"email,omitempty"`
	TutorID   string              `json:"tutor_id,omitempty"`
	TutorName string              `json:"tutor_name,omitempty"`
}

// CanSubmit 学生与导师可提交请假单，管理员不提交
func (s *Session) CanSubmit() bool {
	return s.Kind == model.KindStudent || s.Kind == model.KindFaculty
}

// CanDecide 导师与管理员可审批
func (s *Session) CanDecide() bool {
	return s.Kind == model.KindFaculty || s.Kind == model.KindAdmin
}
