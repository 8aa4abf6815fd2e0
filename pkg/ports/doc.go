/*
Package ports defines the driven ports (interfaces) of the keyboard engine.

These interfaces decouple the navigation core from the chat transport and from the
place session positions are kept.

# Key Interfaces

  - SessionStore: keeps the current address of every live session.
  - DistributedLocker: serialises events of one session across replicas.
  - Gateway: renders replies (menus, texts, notices) to the user.
  - TypingNotifier: optional gateway capability for typing indicators.
*/
package ports
