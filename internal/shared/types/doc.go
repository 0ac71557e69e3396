// Package types provides shared data structures for the webtop backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - FileItem: Virtual filesystem metadata record (content lives separately)
//   - TrashInfo: Soft-delete marker carrying the restore path
//   - Instance: Open application window with geometry and lifecycle flags
//   - AppDefinition: Registered application contract
//   - Entry: Content store payload {name, content}
//   - Session: Named desktop snapshot
//   - Settings: Desktop preferences
//
// Request Types:
//   - SaveFileRequest, MoveRequest, RenameRequest: File operations
//   - LaunchRequest, GeometryRequest: Window operations
//   - WSMessage: WebSocket communication
//
// State Management:
//   - ItemType: File type tag (directory, text, markdown, image extensions)
//   - Bucket: Content store partition (documents, images, trash, ...)
//   - Event, EventType: Committed-mutation notifications
//
// Example Usage:
//
//	item := &types.FileItem{
//	    Path: "/Documents/notes.txt",
//	    Name: "notes.txt",
//	    Type: types.TypeText,
//	    UUID: uuid.NewString(),
//	}
package types
