package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers 路由用到的全部 Handler
type Handlers struct {
	Class    *ClassHandler
	Chatroom *ChatroomHandler
	Member   *MemberHandler
	Doc      *DocHandler
	CheckIn  *CheckInHandler
}

// RegisterRoutes 注册全部路由。auth 为 nil 时课堂接口不做登录校验。
// 推流回调和 verifyAuthToken 始终不需要登录。
func RegisterRoutes(router gin.IRouter, h Handlers, auth gin.HandlerFunc) {
	guarded := func(group *gin.RouterGroup) gin.IRoutes {
		if auth == nil {
			return group
		}
		return group.Use(auth)
	}

	public := router.Group("/api/v1/class")
	{
		public.Match([]string{http.MethodGet, http.MethodPost}, "/handlePushStreamEventCallback", h.Class.HandlePushStreamEventCallback)
		public.POST("/verifyAuthToken", h.Class.VerifyAuthToken)
	}

	v1 := guarded(router.Group("/api/v1/class"))
	{
		v1.POST("/token", h.Class.Token)
		v1.POST("/create", h.Class.Create)
		v1.POST("/get", h.Class.Get)
		v1.POST("/list", h.Class.List)
		v1.POST("/start", h.Class.Start)
		v1.POST("/stop", h.Class.Stop)
		v1.POST("/pause", h.Class.Pause)
		v1.POST("/delete", h.Class.Delete)
		v1.POST("/update", h.Class.Update)
		v1.POST("/updateMeetingInfo", h.Class.UpdateMeetingInfo)
		v1.POST("/getMeetingInfo", h.Class.GetMeetingInfo)
		v1.POST("/getLiveJumpUrl", h.Class.GetLiveJumpURL)
		v1.POST("/getRtcAuthToken", h.Class.GetRtcAuthToken)
		v1.POST("/getWhiteboardAuthInfo", h.Class.GetWhiteboardAuthInfo)

		v1.POST("/muteUser", h.Chatroom.MuteUser)
		v1.POST("/cancelMuteUser", h.Chatroom.CancelMuteUser)
		v1.POST("/muteChatroom", h.Chatroom.MuteChatroom)
		v1.POST("/cancelMuteChatroom", h.Chatroom.CancelMuteChatroom)
		v1.POST("/isMuteChatroom", h.Chatroom.IsMuteChatroom)
		v1.POST("/sendLikeMessage", h.Chatroom.SendLikeMessage)
		v1.POST("/getStatistics", h.Chatroom.GetStatistics)

		v1.POST("/joinClass", h.Member.JoinClass)
		v1.POST("/leaveClass", h.Member.LeaveClass)
		v1.POST("/kickClass", h.Member.KickClass)
		v1.POST("/listMembers", h.Member.ListMembers)
		v1.POST("/setAssistantPermit", h.Member.SetAssistantPermit)
		v1.POST("/getAssistantPermit", h.Member.GetAssistantPermit)
		v1.POST("/deleteAssistantPermit", h.Member.DeleteAssistantPermit)

		v1.POST("/addDoc", h.Doc.AddDoc)
		v1.POST("/deleteDoc", h.Doc.DeleteDoc)
		v1.POST("/queryDoc", h.Doc.QueryDoc)
		v1.POST("/addDocs", h.Doc.AddDocs)
		v1.POST("/deleteDocs", h.Doc.DeleteDocs)
	}

	v2 := guarded(router.Group("/api/v2/class"))
	{
		v2.POST("/token", h.Class.TokenV2)
		v2.POST("/create", h.Class.CreateV2)
	}

	checkIn := guarded(router.Group("/api/class"))
	{
		checkIn.POST("/setCheckIn", h.CheckIn.SetCheckIn)
		checkIn.POST("/getRunningCheckIn", h.CheckIn.GetRunningCheckIn)
		checkIn.POST("/getAllCheckIns", h.CheckIn.GetAllCheckIns)
		checkIn.POST("/checkIn", h.CheckIn.CheckIn)
		checkIn.POST("/getCheckInRecords", h.CheckIn.GetCheckInRecords)
		checkIn.POST("/getCheckInRecordByUserId", h.CheckIn.GetCheckInRecordByUserID)
	}

	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
}
